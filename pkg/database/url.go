package database

import (
	"errors"
	"net/url"
	"strings"
)

// DriverName is the database/sql driver every connection string is bound to.
const DriverName = "postgres"

// managedTLSDomains lists hosting domains whose external endpoints only accept TLS.
var managedTLSDomains = []string{"render.com"}

// NormalizeURL turns a DATABASE_URL as exported by hosting dashboards (including
// SQLAlchemy-style URLs) into a DSN accepted by lib/pq.
func NormalizeURL(raw string) (driver string, dsn string, err error) {
	dsn = strings.TrimSpace(raw)
	if dsn == "" {
		return "", "", errors.New("database url is empty")
	}

	if strings.HasPrefix(dsn, "postgres://") {
		dsn = "postgresql://" + strings.TrimPrefix(dsn, "postgres://")
	}
	for _, qualifier := range []string{"postgresql+psycopg2://", "postgresql+psycopg://"} {
		if strings.HasPrefix(dsn, qualifier) {
			dsn = "postgresql://" + strings.TrimPrefix(dsn, qualifier)
		}
	}
	if !strings.HasPrefix(dsn, "postgresql://") {
		return "", "", errors.New("database url must use the postgres scheme")
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", "", err
	}
	if requiresTLS(parsed.Hostname()) && parsed.Query().Get("sslmode") == "" {
		if parsed.RawQuery == "" {
			dsn += "?sslmode=require"
		} else {
			dsn += "&sslmode=require"
		}
	}

	return DriverName, dsn, nil
}

func requiresTLS(host string) bool {
	host = strings.ToLower(host)
	for _, domain := range managedTLSDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
