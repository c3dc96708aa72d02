// Package ws implements the live view channel of launchdash.
//
// New(viewer, metrics) creates a Hub.
// Hub.Run(ctx) blocks until ctx is cancelled, then closes all connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// layout on connect, then answers selector requests.
// Hub.BroadcastLayout pushes a fresh layout to every client after a UI
// config reload.
//
// Messages:
//
//	server → client  {"event":"layout","data":{ /* GET /api/v1/layout */ }}
//	client → server  {"seq":3,"site":"KSC LC-39A","payload_min":0,"payload_max":5000}
//	server → client  {"event":"view","seq":3,"data":{ /* GET /api/v1/view */ }}
//	server → client  {"event":"error","seq":3,"error":"..."}
//
// Each client has a one-slot mailbox between its read pump and its compute
// worker. A request that arrives while another is still pending replaces it,
// so a client dragging the slider only gets answers for where it stopped.
// Replies echo seq; clients drop replies older than their latest request.
//
// The upgrader accepts all origins. The server mounts the hub at /ws/view.
package ws
