package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
)

const wildcard = "*"

// CORS builds gin-contrib/cors from cfg. A "*" origin allows every origin;
// other origins must match exactly, ignoring case and a trailing slash.
// Requests from any other origin get 403.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  cfg.AllowedMethods,
		AllowHeaders:  cfg.AllowedHeaders,
		ExposeHeaders: []string{RequestIDHeader, "X-Result-Key", "X-Cache"},
		MaxAge:        cfg.MaxAge,
	}

	if contains(cfg.AllowedOrigins, wildcard) {
		corsCfg.AllowAllOrigins = true
	} else {
		for _, o := range cfg.AllowedOrigins {
			corsCfg.AllowOrigins = append(corsCfg.AllowOrigins, strings.ToLower(strings.TrimRight(o, "/")))
		}
	}

	return cors.New(corsCfg)
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
