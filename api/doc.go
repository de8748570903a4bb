// Package api exposes the notification service over HTTP.
//
// Every response is wrapped in a uniform envelope:
//
//	{"success": true,  "data": ...}
//	{"success": false, "error": "..."}
//
// Routes:
//
//	POST /create  accept a notification event (JSON body)
//	POST /read    mark a notification as read (query parameters)
//	GET  /list    page through a user's notification log (query parameters)
//	GET  /health  liveness/readiness probe
package api
