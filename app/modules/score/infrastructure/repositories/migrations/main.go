package scoremigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the score module schema changes.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
