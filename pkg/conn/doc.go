// Package conn implements the Gearman protocol engine: framing,
// positional request/response correlation, and unsolicited-frame
// fan-out over a single abstract transport.
//
// A Conn is passive. It owns no goroutines and no sockets; the
// surrounding application (or the gearo.Dial helper) pumps inbound
// bytes into OnDataReceived and signals closure through
// OnConnectionLost. Outbound frames go through Send, which returns an
// api.Reply future, or SendRaw for fire-and-forget commands.
//
// Responses resolve pending requests in strict FIFO order because the
// wire format carries no request IDs; this mirrors the job server's
// guarantee that replies arrive in request order. Frames arriving with
// no request pending — NOOP wake-ups, pushed job notifications, work
// progress for submitted jobs — are delivered to every registered
// unsolicited subscriber.
package conn
