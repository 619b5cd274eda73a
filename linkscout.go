// Package linkscout discovers URLs that reference a target domain.
// It scrapes search engine result pages using linkfromdomain: dorks and
// queries the Wayback Machine CDX index for archived files, then filters
// and reports the findings per domain.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package linkscout
