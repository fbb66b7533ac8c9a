// Comando token emite un Bearer Token para las rutas de escritura.
//
//	go run ./cmd/token <operador> [minutos]
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/socks-api/pkg/config"
	"github.com/jhoicas/socks-api/pkg/jwt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: token <operador> [minutos]")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if !cfg.JWT.Enabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está definido")
		os.Exit(1)
	}

	minutes := cfg.JWT.Expiration
	if len(os.Args) > 2 {
		minutes, err = strconv.Atoi(os.Args[2])
		if err != nil || minutes <= 0 {
			fmt.Fprintln(os.Stderr, "minutos debe ser un entero positivo")
			os.Exit(2)
		}
	}

	token, err := jwt.Generate(cfg.JWT.Secret, os.Args[1], cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
