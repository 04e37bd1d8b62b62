// Package services holds the client-side application state: the session
// (who is logged in) and the project workspace (which project every
// scoped call targets).
//
// Stores guard their state with mutexes that are never held across
// network calls. A request issued by a store may trigger the request
// client's auth-expired hooks, and those hooks call back into the session
// store.
package services
