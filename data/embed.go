package data

import (
	_ "embed"
)

//go:embed catalog/items.json
var CatalogItems []byte

//go:embed catalog/parts.json
var CatalogParts []byte

//go:embed catalog/measurements.json
var CatalogMeasurements []byte
