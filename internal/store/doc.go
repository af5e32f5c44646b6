// Package store holds the dashboard view state and publishes its changes.
//
// This package is internal to discoveryboard. It keeps the single
// [model.ViewState] that the poller writes into and the server reads from,
// and implements a publish-subscribe pattern so connected dashboard clients
// receive a fresh snapshot after every change.
//
// The main components are:
//
//   - [Store]: Interface defining state mutation and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//
// The store is designed for concurrent access with proper synchronization.
// Subscribers receive updates via channels with non-blocking sends (slow
// subscribers will miss updates rather than block the refresh loop).
package store
