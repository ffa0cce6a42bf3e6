// Package http exposes the dashboard over JSON.
//
// Public endpoints:
//   - GET /api/dashboard?turno=&dia=: items for the dashboard as
//     {"items","notices","filters","generated_at"}. dia defaults to "auto"
//     (today, not yet started) and turno to "todos".
//   - GET /api/dashboard/next: {"found","item"} for the next item today.
//   - GET /api/ws: websocket feed of catalog_changed, next_item and notice
//     messages.
//   - POST /api/login: {"username","password"} -> {"token","expires_at"}; the
//     token is also set as the `session_token` cookie and `X-Session-Token`
//     header. POST /api/logout revokes it.
//   - GET /api/health and GET /metrics.
//
// Admin endpoints require a session (Bearer header or cookie):
//   - GET|POST /api/classes, GET|PUT|DELETE /api/classes/{id}, and the same
//     for /api/events. Lists accept q, dia (classes) or data (events), sort,
//     dir and toggle; the response echoes the resulting sort state.
//   - GET /api/{classes|events}/export?format=json|csv,
//     POST /api/{classes|events}/import?format=json|csv and
//     DELETE /api/{classes|events}.
//
// Record payloads use the Portuguese field names of the interchange format
// (disciplina, horario1, diaSemana, titulo, data, ...). Error bodies are
// {"error_code","message","errors"} with Portuguese messages.
package http
