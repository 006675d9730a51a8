package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutorias API",
        "description": "Registro de tutorias escolares: CRUD de professores e relatórios da gestão. Autenticação por cookie de sessão.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Tutorias", "description": "Registros do professor logado"},
        {"name": "Gestao", "description": "Relatórios e carimbos (modo gestão)"}
    ],
    "paths": {
        "/catalogo": {
            "get": {
                "tags": ["Tutorias"],
                "summary": "List the accepted series and occurrence tags",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tutorias": {
            "post": {
                "tags": ["Tutorias"],
                "summary": "Create a tutoring record owned by the logged-in user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/TutoriaRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tutorias/{id}": {
            "put": {
                "tags": ["Tutorias"],
                "summary": "Replace the content of a tutoring record",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/TutoriaRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Tutorias"],
                "summary": "Delete a tutoring record",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gestao/professores": {
            "get": {
                "tags": ["Gestao"],
                "summary": "List every account",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Gestão mode locked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gestao/tutorias": {
            "get": {
                "tags": ["Gestao"],
                "summary": "List every tutoring record",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Gestão mode locked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gestao/tutorias/export": {
            "get": {
                "tags": ["Gestao"],
                "summary": "Download the full report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Gestão mode locked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gestao/carimbo": {
            "post": {
                "tags": ["Gestao"],
                "summary": "Stamp every tutoring record",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/CarimboRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Gestão mode locked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/gestao/tutorias/{id}/carimbo": {
            "post": {
                "tags": ["Gestao"],
                "summary": "Stamp a single tutoring record",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"},
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/CarimboRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Contact": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "telefone": {"type": "string"}
            }
        },
        "TutoriaRequest": {
            "type": "object",
            "required": ["nome_aluno", "serie"],
            "properties": {
                "nome_tutor": {"type": "string"},
                "nome_aluno": {"type": "string"},
                "serie": {"type": "string", "example": "6A"},
                "tel_aluno": {"type": "string"},
                "contatos_extra": {"type": "array", "items": {"$ref": "#/definitions/Contact"}},
                "projeto_vida": {"type": "string"},
                "descricoes": {"type": "string"},
                "ocorrencias": {"type": "array", "items": {"type": "string"}},
                "assinatura": {"type": "string", "description": "PNG data URL"}
            }
        },
        "CarimboRequest": {
            "type": "object",
            "properties": {
                "resp": {"type": "string"},
                "inst": {"type": "string"},
                "contato": {"type": "string"},
                "texto": {"type": "string", "default": "ÊXITO VISTADO"},
                "obs": {"type": "string"}
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
