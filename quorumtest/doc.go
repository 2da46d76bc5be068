/*
Package quorumtest provides helpers for tests that run instructions
against a real store: keys, signed transactions and funded accounts.
*/
package quorumtest
