// Package docs registra el documento OpenAPI de la API (servido en /docs).
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos del documento; el host se completa en tiempo de ejecución.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Socks API",
	Description:      "Inventario de calcetines: ingresos, salidas, conteo, carga CSV y filtros.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// JSON devuelve el documento OpenAPI renderizado.
func JSON() []byte {
	return []byte(SwaggerInfo.ReadDoc())
}
