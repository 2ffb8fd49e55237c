// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

/*
Package services provides suture.Service wrappers for long-running components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve

Mining (MiningService):
  - Runs the mining pipeline on startup when configured
  - Re-mines every RefreshInterval and publishes the next run time
  - Failed runs are logged; the last published model stays current

Every wrapper implements fmt.Stringer so suture logs a readable name.
*/
package services
