// Package transport moves built artifacts to their installation
// destinations.
//
// One transport exists per target class: local filesystem copy, scp/ssh for
// remote hosts, docker cp/exec for containers. Transports are looked up
// through a small registry keyed by class, and every external command runs
// through the injectable executor so tests can assert the exact commands
// without touching the network or a docker daemon.
//
// Delivery includes permission propagation: after the copy, the destination
// side receives the artifact's permission mode and ownership (chmod/chown
// locally, over ssh for remote hosts, via docker exec for containers).
// Delivery failures surface as DELIVERY errors; nothing already delivered is
// rolled back, since a re-run overwrites the same destinations.
package transport
