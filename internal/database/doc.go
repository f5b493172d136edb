// Package database provides PostgreSQL connectivity and the appointment
// repository. The appointments table is owned and mutated by external actors;
// this package only reads it.
package database
