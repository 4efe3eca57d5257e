package router

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

func registerSwaggerRoutes(router *mux.Router) {
	router.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	}).Methods(http.MethodGet)

	router.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	}).Methods(http.MethodGet)

	router.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	}).Methods(http.MethodGet)
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Simple Banking API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Simple Banking API",
    "version": "1.0.0"
  },
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Sign in with email and password, or account number and PIN",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "email": {"type": "string", "example": "demo@bank.com"},
                  "password": {"type": "string", "example": "demo123"},
                  "accountNumber": {"type": "string", "example": "1234567890"},
                  "pin": {"type": "string", "example": "1234"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Signed in"},
          "400": {"description": "Validation error"},
          "401": {"description": "Invalid credentials"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/auth/logout": {
      "post": {
        "summary": "End the current session",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Signed out"},
          "401": {"description": "Unauthorized"}
        }
      }
    },
    "/accounts": {
      "get": {
        "summary": "List the signed in user's accounts",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Accounts fetched"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/dashboard": {
      "get": {
        "summary": "Total balance, accounts and recent transactions",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Dashboard fetched"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/transactions": {
      "get": {
        "summary": "Filtered transaction history with summary",
        "security": [{"BearerAuth": []}],
        "parameters": [
          {"name": "type", "in": "query", "schema": {"type": "string", "enum": ["all", "credit", "debit", "transfer"]}},
          {"name": "account", "in": "query", "schema": {"type": "string", "example": "Checking"}},
          {"name": "search", "in": "query", "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {"description": "Transactions fetched"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/deposits": {
      "post": {
        "summary": "Deposit into an account",
        "security": [{"BearerAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/SingleAccountForm"}
            }
          }
        },
        "responses": {
          "201": {"description": "Deposit processed"},
          "400": {"description": "Missing field or invalid amount"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "409": {"description": "Form already being processed"},
          "422": {"description": "Daily limit exceeded"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/withdrawals": {
      "post": {
        "summary": "Withdraw from an account",
        "security": [{"BearerAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/SingleAccountForm"}
            }
          }
        },
        "responses": {
          "201": {"description": "Withdrawal processed"},
          "400": {"description": "Missing field or invalid amount"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "409": {"description": "Form already being processed"},
          "422": {"description": "Insufficient funds or daily limit exceeded"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/transfers": {
      "post": {
        "summary": "Move money between two of the user's accounts",
        "security": [{"BearerAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["fromAccountId", "toAccountId", "amount"],
                "properties": {
                  "formId": {"type": "string"},
                  "fromAccountId": {"type": "string", "example": "acc1"},
                  "toAccountId": {"type": "string", "example": "acc2"},
                  "amount": {"type": "string", "example": "250.00"},
                  "description": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Transfer processed"},
          "400": {"description": "Missing field, invalid amount or same account"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "409": {"description": "Form already being processed"},
          "422": {"description": "Insufficient funds"},
          "500": {"description": "Server error"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BearerAuth": {
        "type": "http",
        "scheme": "bearer",
        "bearerFormat": "JWT"
      }
    },
    "schemas": {
      "SingleAccountForm": {
        "type": "object",
        "required": ["accountId", "amount"],
        "properties": {
          "formId": {"type": "string"},
          "accountId": {"type": "string", "example": "acc1"},
          "amount": {"type": "string", "example": "100.00"},
          "description": {"type": "string"}
        }
      }
    }
  }
}`
