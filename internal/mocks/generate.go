// Package mocks provides generated mock implementations for testing appshell.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the auth ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockSessionStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "sid").Return(domainauth.Session{}, ports.ErrSessionNotFound)
package mocks

// Generate mock for SessionStore interface from internal/ports package.
// This creates MockSessionStore with methods Save, Get, Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/target/appshell/internal/ports SessionStore
