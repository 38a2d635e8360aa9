// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── changes.go       # Post-commit table change notifications
//	├── errors.go        # Error taxonomy (NotFound, StorageUnavailable, ...)
//	├── movies/          # Movie CRUD, title search, movie-with-genres reads
//	├── genres/          # Genres, movie/genre links, genre-with-movies reads
//	├── settings/        # Key/value application settings
//	└── audit/           # Audit event log
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./mediatracker.db")
//
//	moviesRepo := movies.NewRepository(db.DB, db.Changes)
//	genresRepo := genres.NewRepository(db.DB, db.Changes)
//
//	movie, err := moviesRepo.GetMovie(ctx, 42)
//	if errors.Is(err, database.ErrNotFound) { ... }
//
// # Transactions
//
// Connections are opened with _txlock=immediate, so every transaction holds
// the write lock from BEGIN. Compound writes (AddGenreWithMovie, cascading
// deletes) and composite reads (MovieWithGenres, GenreWithMovies) run
// inside a single transaction.
//
// # Change notifications
//
// Repositories publish the names of the tables they wrote to on the shared
// ChangeNotifier once the write has committed. Live queries such as
// movies.Repository.WatchMoviesByTitle re-run when they see a signal.
package database
