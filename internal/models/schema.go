package models

// Content tables live in the portfolio schema, request bookkeeping in
// request_audit.
const (
	PortfolioSchema = "portfolio"
	AuditSchema     = "request_audit"
)

func portfolioTable(name string) string { return PortfolioSchema + "." + name }

func auditTable(name string) string { return AuditSchema + "." + name }

// SingletonID is the primary key of the profile, config and ui_config rows.
const SingletonID uint = 1
