// Package docs registra a especificação OpenAPI servida em /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/stocks": {
            "get": {
                "description": "Com date, todas as ações da data por variação desc. Sem date, as mais recentes até limit.",
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Snapshots de ações",
                "parameters": [
                    {"type": "string", "description": "Data (YYYY-MM-DD)", "name": "date", "in": "query"},
                    {"type": "integer", "description": "Máximo de linhas quando date é omitido", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StocksResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/dates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Datas disponíveis",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.DatesResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/stats": {
            "get": {
                "description": "Sem date, usa a data mais recente.",
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Estatísticas do pregão",
                "parameters": [
                    {"type": "string", "description": "Data (YYYY-MM-DD)", "name": "date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StatsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string", "example": "method not allowed"}
            }
        },
        "api.DatesResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"type": "string"}, "example": ["2024-01-02", "2024-01-01"]},
                "error": {"type": "string"}
            }
        },
        "api.StatsResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.Stats"},
                "error": {"type": "string"}
            }
        },
        "api.StocksResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.Snapshot"}},
                "error": {"type": "string"}
            }
        },
        "domain.Stats": {
            "type": "object",
            "properties": {
                "totalCount": {"type": "integer"},
                "positiveCount": {"type": "integer"},
                "negativeCount": {"type": "integer"},
                "avgChangePct": {"type": "number"}
            }
        },
        "domain.Snapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "code": {"type": "integer"},
                "stock_name": {"type": "string"},
                "latest_price": {"type": "number"},
                "latest_change_pct": {"type": "number"},
                "listing_board": {"type": "string"},
                "auction_change_pct": {"type": "number"},
                "pe_ttm": {"type": "number"},
                "pe": {"type": "number"},
                "dde_large_order": {"type": "number"},
                "volume_ratio": {"type": "number"},
                "interval_change_13d": {"type": "number"},
                "interval_change_5d": {"type": "number"},
                "listing_days": {"type": "integer"},
                "forecast_pe_1y": {"type": "number"},
                "forecast_pe_2y": {"type": "number"},
                "forecast_pe_3y": {"type": "number"},
                "market_cap": {"type": "number"},
                "eps": {"type": "number"},
                "gross_margin": {"type": "number"},
                "net_margin": {"type": "number"},
                "auction_price": {"type": "number"},
                "auction_type": {"type": "string"},
                "auction_desc": {"type": "string"},
                "auction_rating": {"type": "string"},
                "auction_volume": {"type": "number"},
                "auction_amount": {"type": "number"},
                "market_code": {"type": "integer"},
                "update_date": {"type": "string", "example": "2024-01-02"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Stock Dashboard API",
	Description:      "API somente leitura de snapshots diários de ações",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
