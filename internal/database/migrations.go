package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createLocationsTable,
		createRoomsTable,
		createEventsTable,
		createEventRoomsTable,
		createTicketTypesTable,
		createTicketsTable,
		createTicketSeatIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    registered_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createLocationsTable = `
CREATE TABLE IF NOT EXISTS locations (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) UNIQUE NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    max_available_seats INTEGER NOT NULL DEFAULT 0,

    CHECK (max_available_seats >= 0)
);`

const createRoomsTable = `
CREATE TABLE IF NOT EXISTS rooms (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    seat_capacity INTEGER NOT NULL,
    location_id INTEGER REFERENCES locations(id) ON DELETE SET NULL,

    CHECK (seat_capacity > 0)
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    name VARCHAR(500) UNIQUE NOT NULL,
    description TEXT,
    starts_at TIMESTAMP NOT NULL,
    ends_at TIMESTAMP NOT NULL,
    numbered_seats BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createEventRoomsTable = `
CREATE TABLE IF NOT EXISTS event_rooms (
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    room_id INTEGER NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,

    PRIMARY KEY (event_id, room_id)
);`

const createTicketTypesTable = `
CREATE TABLE IF NOT EXISTS ticket_types (
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    label VARCHAR(255) NOT NULL,
    price_cents BIGINT NOT NULL DEFAULT 0,
    quota INTEGER NOT NULL DEFAULT 0,

    PRIMARY KEY (event_id, label),
    CHECK (price_cents >= 0),
    CHECK (quota >= 0)
);`

const createTicketsTable = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS tickets (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id),
    type_label VARCHAR(255) NOT NULL,
    price_cents BIGINT NOT NULL,
    seat_number VARCHAR(50),
    purchased_at TIMESTAMP NOT NULL DEFAULT NOW(),
    valid_from TIMESTAMP,
    valid_to TIMESTAMP
);`

// Backstop under the in-process sales ledger: even if a second process
// bypasses the per-event lock, the same seat cannot be issued twice.
const createTicketSeatIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS tickets_event_seat_idx
ON tickets (event_id, seat_number)
WHERE seat_number IS NOT NULL;`
