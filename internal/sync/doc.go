// Package sync reconciles stored player presence with the online roster of
// each tenant's server.
//
// One pass of the Engine lists every tenant with a roster source and, for
// each in turn, fetches the roster, diffs it against the stored players and
// applies the resulting transitions. Going online opens a session and going
// offline closes it; both are applied atomically by the store together with
// the online flag. Every applied transition is announced to the tenant's
// tracking channels.
//
// Failures are isolated per tenant: a roster or store error for one tenant is
// logged, recorded and counted, and the pass continues with the next tenant.
// Roster sync never creates players; only live team events do.
package sync
