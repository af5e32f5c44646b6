// Package dashboard provides the embedded web UI templates for discoveryboard.
//
// The templates are compiled into the binary, so the dashboard ships as a
// single file. They are parsed by the view package and served by the server
// package; library users should not need this package directly.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard templates.
//
//	assets/
//	  index.html     - dashboard page; defines the "panels" block
//	  molecule.html  - 3D molecule viewer for one SMILES string
//
//go:embed assets/*
var Assets embed.FS
