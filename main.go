package main

import (
	"log"
	"os"

	"accesscontrol/config"
	dbpkg "accesscontrol/db"
	"accesscontrol/router"

	"github.com/gin-gonic/gin"
)

// =====================
// ENV esperadas
// =====================
//
// - PORT                        (sobrepõe api_port do config.json)
// - CONFIG_PATH                 (caminho do config.json, default config.json)
// - AUTOMIGRATE                 (1 para criar/ajustar tabelas no boot)
// - SEED                        (1 para popular catálogo e usuários demo)
// - JWT_SECRET                  (segredo dos tokens; default CHANGE_ME)
//
// =====================

func main() {
	configPath := getenv("CONFIG_PATH", "config.json")
	cfg := config.Get(configPath)

	dbpkg.SetConfigurations(cfg)
	database, err := dbpkg.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	if getenv("SEED", "0") == "1" {
		if err := dbpkg.Seed(database); err != nil {
			log.Fatal(err)
		}
	}

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	router.Initialize(r, cfg)

	port := getenv("PORT", cfg.ApiPort)
	log.Printf("Access control API listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
