package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/TekNegr/Projet-Ecommerce/app/cmd"
	"github.com/TekNegr/Projet-Ecommerce/app/configs"
	"github.com/TekNegr/Projet-Ecommerce/app/routes"
	"github.com/TekNegr/Projet-Ecommerce/app/utils/sessions"
)

func main() {
	env := configs.LoadEnv()

	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	rand.Seed(time.Now().UnixNano())

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	sessionKeys, err := configs.LoadSessionKeysFromEnv()
	if err != nil {
		log.Fatalf("Failed to load session keys: %v. Run `generate-keys` and copy the output into .env.", err)
	}
	sessionStore := sessions.NewCookieSessionStore(sessionKeys.AuthKey, sessionKeys.EncKey)
	log.Println("✅ Session store initialized.")

	if env.GEOAPIFY_API_KEY == "" {
		log.Println("Warning: GEOAPIFY_API_KEY is empty, freight estimates will degrade to zero.")
	}

	router := routes.NewRouter(db, env, sessionStore, sessionKeys)

	addr := env.Port
	if addr == "" {
		addr = ":8080"
	}
	server := http.Server{
		Addr:    addr,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
