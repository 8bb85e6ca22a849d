// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Dinner Pick API.

NewRouter wires every handler onto one http.ServeMux:

	mux := router.NewRouter(mgr, cfg)

# Endpoints

Service:

	GET /health
	GET /metrics

Election lifecycle (requires X-Admin-Key):

	POST   /elections/{id}/start    - Open voting
	POST   /elections/{id}/finalize - Compute the winner
	POST   /elections/{id}/cancel   - Cancel
	DELETE /elections/{id}          - Remove

Group members (requires X-Group-Codeword):

	POST   /elections/{id}/participants                 - Join
	POST   /elections/{id}/nominations                  - Nominate a restaurant
	DELETE /elections/{id}/nominations/{nominationId}   - Withdraw a nomination
	POST   /elections/{id}/votes                        - Submit or replace a ranking
	GET    /elections/{id}                              - Election state and result

Creating and listing elections is open:

	POST /elections
	GET  /elections
*/
package router
