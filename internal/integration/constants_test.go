package integration_test

const (
	TestMovieTitle       = "Alien"
	TestMovieDescription = "The crew of the Nostromo answers a distress call."
	TestMoviePosterUrl   = "https://example.com/alien.jpg"
	TestMovieRating      = "8.5"
	TestMovieGenre       = "Horror"

	TestTmdbId        = "348"
	TestTmdbPosterUrl = "https://image.tmdb.org/t/p/original/vfrQk5IPloGg1v9Rzbh2Eg3VGyM.jpg"
	TestTmdbVideoKey  = "LjLamj-b0I8"
)
