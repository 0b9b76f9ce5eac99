// Package recipients manages who receives each notification type. Lists are
// stored in Postgres and resolved per send; the configured default recipient
// is appended to every list and cannot be removed or deactivated.
package recipients
