// Package importers reads movie catalogs from CSV documents and stores them.
//
// # Accepted formats
//
// Columns are located by header name, so any column order works. Three
// layouts are recognised:
//
//	v1 (written by package exporters):
//	  # mediatracker-csv v1
//	  uid,title,year,director,body,runtime,tagline,rating,note,own_physical,own_digital,watchlist,completed,poster
//	legacy quoted export:
//	  title,year,director,body,runtime,tagline,rating,note
//	legacy positional export:
//	  uid,title,year,director,body,runtime,tagline,rating,note,own_physical,own_digital
//
// The title column is required. Missing columns take their zero value and
// uid is always ignored: every imported row becomes a new movie.
//
// # Malformed rows
//
// A row with the wrong number of fields, a non-numeric year, runtime or
// rating, a rating outside 0-10, or an unreadable boolean is skipped and
// reported as "Line N: reason". The rest of the document is still imported.
//
// # Example Usage
//
//	pipeline := importers.NewPipeline(repo)
//	result, err := pipeline.ImportCSV(ctx, file, importers.Options{})
package importers
