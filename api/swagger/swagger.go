package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Contestações API",
        "description": "Gestão de contestações de cancelamento iFood",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Contestacoes", "description": "CRUD e operações em lote"},
        {"name": "Importacao", "description": "Importação de relatórios de cancelamento"},
        {"name": "Dashboard", "description": "Métricas agregadas"},
        {"name": "Exportacao", "description": "Download CSV/PDF"},
        {"name": "Manutencao", "description": "Limpezas e normalização da planilha"}
    ],
    "paths": {
        "/contestacoes": {
            "get": {
                "tags": ["Contestacoes"],
                "summary": "List disputes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Contestacoes"],
                "summary": "Open a dispute manually",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDisputeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Contestacoes"],
                "summary": "Update a dispute's resolution block",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDisputeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Contestacoes"],
                "summary": "Remove a dispute",
                "parameters": [
                    {"name": "id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contestacoes/batch-update": {
            "post": {
                "tags": ["Contestacoes"],
                "summary": "Apply the same changes to several disputes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No dispute matched", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contestacoes/batch-delete": {
            "post": {
                "tags": ["Contestacoes"],
                "summary": "Remove several disputes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchDeleteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No dispute matched", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/importacao": {
            "post": {
                "tags": ["Importacao"],
                "summary": "Import a vendor cancellation report",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Reconciliation summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Another import in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dispute dashboard metrics",
                "parameters": [
                    {"name": "dataInicio", "in": "query", "type": "string"},
                    {"name": "dataFim", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exportacao": {
            "get": {
                "tags": ["Exportacao"],
                "summary": "Download the dispute list as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "formato", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "dataInicio", "in": "query", "type": "string"},
                    {"name": "dataFim", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/manutencao/linhas-vazias": {
            "get": {
                "tags": ["Manutencao"],
                "summary": "Report blank rows",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Manutencao"],
                "summary": "Delete blank rows",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/manutencao/duplicatas": {
            "get": {
                "tags": ["Manutencao"],
                "summary": "Report duplicated disputes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Manutencao"],
                "summary": "Delete duplicated disputes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DuplicatesCleanupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/manutencao/normalizar": {
            "get": {
                "tags": ["Manutencao"],
                "summary": "Report divergent restaurant names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Manutencao"],
                "summary": "Normalize restaurant names in place",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateDisputeRequest": {
            "type": "object",
            "required": ["numeroPedido", "restaurante"],
            "properties": {
                "dataAbertura": {"type": "string"},
                "numeroPedido": {"type": "string"},
                "restaurante": {"type": "string"},
                "motivo": {"type": "string"},
                "descricao": {"type": "string"},
                "valor": {"type": "number"},
                "status": {"type": "string", "enum": ["AGUARDANDO", "EM ANALISE", "FINALIZADO", "CANCELADO"]},
                "responsavel": {"type": "string"},
                "motivoEspecifico": {"type": "string"},
                "observacoes": {"type": "string"},
                "valorRecuperado": {"type": "number"}
            }
        },
        "UpdateDisputeRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"},
                "rowIndex": {"type": "integer"},
                "status": {"type": "string"},
                "dataResolucao": {"type": "string"},
                "resultado": {"type": "string"},
                "valorRecuperado": {"type": "number"},
                "observacoes": {"type": "string"}
            }
        },
        "BatchUpdateRequest": {
            "type": "object",
            "required": ["ids"],
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}},
                "updates": {"type": "object"}
            }
        },
        "BatchDeleteRequest": {
            "type": "object",
            "required": ["ids"],
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "DuplicatesCleanupRequest": {
            "type": "object",
            "properties": {
                "idsParaRemover": {"type": "array", "items": {"type": "string"}},
                "linhasParaRemover": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
