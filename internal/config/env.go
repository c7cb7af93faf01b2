package config

import (
	"github.com/JaimeStill/docman/internal/identity"
	"github.com/JaimeStill/docman/pkg/database"
	"github.com/JaimeStill/docman/pkg/logging"
	"github.com/JaimeStill/docman/pkg/middleware"
	"github.com/JaimeStill/docman/pkg/pagination"
	"github.com/JaimeStill/docman/pkg/repository"
	"github.com/JaimeStill/docman/pkg/storage"
)

var serverEnv = &ServerEnv{
	Host:            "DOCMAN_SERVER_HOST",
	Port:            "DOCMAN_SERVER_PORT",
	BasePath:        "DOCMAN_SERVER_BASE_PATH",
	ReadTimeout:     "DOCMAN_SERVER_READ_TIMEOUT",
	WriteTimeout:    "DOCMAN_SERVER_WRITE_TIMEOUT",
	ShutdownTimeout: "DOCMAN_SERVER_SHUTDOWN_TIMEOUT",
}

var databaseEnv = &database.Env{
	Host:            "DOCMAN_DB_HOST",
	Port:            "DOCMAN_DB_PORT",
	Name:            "DOCMAN_DB_NAME",
	User:            "DOCMAN_DB_USER",
	Password:        "DOCMAN_DB_PASSWORD",
	MaxOpenConns:    "DOCMAN_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "DOCMAN_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DOCMAN_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "DOCMAN_DB_CONN_TIMEOUT",
	SSLMode:         "DOCMAN_DB_SSL_MODE",
}

var loggingEnv = &logging.Env{
	Level:     "DOCMAN_LOG_LEVEL",
	Format:    "DOCMAN_LOG_FORMAT",
	AddSource: "DOCMAN_LOG_ADD_SOURCE",
}

var storageEnv = &storage.Env{
	BasePath:      "DOCMAN_STORAGE_BASE_PATH",
	MaxUploadSize: "DOCMAN_STORAGE_MAX_UPLOAD_SIZE",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "DOCMAN_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "DOCMAN_PAGINATION_MAX_PAGE_SIZE",
}

var corsEnv = &middleware.CORSEnv{
	Enabled:          "DOCMAN_CORS_ENABLED",
	Origins:          "DOCMAN_CORS_ORIGINS",
	AllowedMethods:   "DOCMAN_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "DOCMAN_CORS_ALLOWED_HEADERS",
	AllowCredentials: "DOCMAN_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "DOCMAN_CORS_MAX_AGE",
}

var identityEnv = &identity.Env{
	Secret:   "DOCMAN_JWT_SECRET",
	Issuer:   "DOCMAN_JWT_ISSUER",
	Audience: "DOCMAN_JWT_AUDIENCE",
	Leeway:   "DOCMAN_JWT_LEEWAY",
}

var accessEnv = &repository.RetryEnv{
	MaxAttempts: "DOCMAN_ACCESS_MAX_ATTEMPTS",
	Backoff:     "DOCMAN_ACCESS_BACKOFF",
}
