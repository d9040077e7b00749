package models

// DefaultSiteName is used in page titles and chrome when nothing else is configured.
const DefaultSiteName = "Inkwell"
