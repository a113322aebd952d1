// Package view holds the stateless formatting and validation helpers used by
// the portal templates and the CLI output: dates, money, status badges, text
// truncation, HTML escaping, form checks and a trailing-edge debouncer.
package view
