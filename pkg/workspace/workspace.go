// Package workspace checks map-server workspaces directly against the
// PostGIS database, without going through the management backend.
package workspace

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/eizes/gis-cli/pkg/settings"
)

const (
	// ConnectTimeout bounds the connection to the database
	ConnectTimeout = 5 * time.Second

	existsQuery = `SELECT EXISTS(
	SELECT 1 FROM information_schema.schemata WHERE schema_name = $1
)`
	schemasQuery = `SELECT schema_name
FROM information_schema.schemata
WHERE schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
ORDER BY schema_name
LIMIT 10`
)

// Checker looks up schemas in the database described by a workspace request
type Checker struct {
	log zerolog.Logger
}

// NewChecker returns a checker logging through log
func NewChecker(log zerolog.Logger) *Checker {
	return &Checker{log: log}
}

// DSN builds the connection string of a request
func DSN(req settings.WorkspaceRequest) string {
	host := req.DBHost
	if host == "" {
		host = settings.DefaultDBHost
	}
	port := req.DBPort
	if port <= 0 {
		port = settings.DefaultDBPort
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + req.DBName,
	}
	if req.DBPassword != "" {
		u.User = url.UserPassword(req.DBUser, req.DBPassword)
	} else {
		u.User = url.User(req.DBUser)
	}
	q := url.Values{}
	q.Set("connect_timeout", strconv.Itoa(int(ConnectTimeout.Seconds())))
	u.RawQuery = q.Encode()
	return u.String()
}

// ValidateWorkspace reports whether the workspace schema exists. Connection
// and query failures are reported as a missing workspace carrying the
// failure, so the returned error is always nil.
func (c *Checker) ValidateWorkspace(ctx context.Context, req settings.WorkspaceRequest) (settings.WorkspaceResult, error) {
	res := settings.WorkspaceResult{Workspace: req.Workspace}

	cfg, err := pgx.ParseConfig(DSN(req))
	if err != nil {
		res.Message = fmt.Sprintf("invalid connection parameters: %v", err)
		return res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout*2)
	defer cancel()

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		c.log.Warn().Err(err).Str("host", cfg.Host).Uint16("port", cfg.Port).Msg("workspace database unreachable")
		res.Message = fmt.Sprintf("connection to %s:%d/%s failed: %v", cfg.Host, cfg.Port, cfg.Database, err)
		return res, nil
	}
	defer conn.Close(context.Background())

	if err := conn.QueryRow(ctx, existsQuery, req.Workspace).Scan(&res.Exists); err != nil {
		res.Message = fmt.Sprintf("database error: %v", err)
		return res, nil
	}

	if res.Exists {
		res.Message = FoundMessage(req.Workspace)
		return res, nil
	}

	rows, err := conn.Query(ctx, schemasQuery)
	if err != nil {
		res.Message = MissingMessage(req, nil)
		return res, nil
	}
	available, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		c.log.Debug().Err(err).Msg("listing schemas")
	}
	res.Message = MissingMessage(req, available)
	return res, nil
}

// FoundMessage is the confirmation of an existing workspace
func FoundMessage(workspace string) string {
	return fmt.Sprintf("Schema '%s' exists in the GeoServer database", workspace)
}

// MissingMessage explains a missing workspace listing the available schemas
func MissingMessage(req settings.WorkspaceRequest, available []string) string {
	host := req.DBHost
	if host == "" {
		host = settings.DefaultDBHost
	}
	msg := fmt.Sprintf("Schema '%s' does not exist in database '%s' on host '%s'.", req.Workspace, req.DBName, host)
	if len(available) > 0 {
		msg += " Available schemas: " + strings.Join(available, ", ")
	}
	return msg
}
