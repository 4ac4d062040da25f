package router

import (
	"net/http"

	"github.com/promptforge/backend/internal/auth"
	"github.com/promptforge/backend/internal/handlers"
)

// New returns an http.Handler serving the API under /api/v1.
// Auth endpoints are public; everything else sits behind bearer-JWT auth.
func New(
	authHandler *auth.Handler,
	generateHandler *handlers.GenerateHandler,
	purchaseHandler *handlers.PurchaseHandler,
	accountHandler *handlers.AccountHandler,
	bearerAuth func(http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()
	const base = "/api/v1"

	mux.HandleFunc("POST "+base+"/auth/register", authHandler.Register)
	mux.HandleFunc("POST "+base+"/auth/login", authHandler.Login)

	mux.Handle("POST "+base+"/generate/text", bearerAuth(http.HandlerFunc(generateHandler.GenerateText)))
	mux.Handle("POST "+base+"/generate/image", bearerAuth(http.HandlerFunc(generateHandler.GenerateImage)))
	mux.Handle("POST "+base+"/credits/purchase", bearerAuth(http.HandlerFunc(purchaseHandler.InitiatePurchase)))

	mux.Handle("GET "+base+"/account/me", bearerAuth(http.HandlerFunc(accountHandler.GetMe)))
	mux.Handle("GET "+base+"/credit-ledger", bearerAuth(http.HandlerFunc(accountHandler.ListCreditLedger)))
	mux.Handle("GET "+base+"/usage/text", bearerAuth(http.HandlerFunc(accountHandler.ListTextGenerations)))
	mux.Handle("GET "+base+"/usage/images", bearerAuth(http.HandlerFunc(accountHandler.ListImageGenerations)))

	return mux
}
