package models

// TermStudy is one row of a term search: a (study, term) pair with the
// mean weight across the matching annotation rows for that pair.
type TermStudy struct {
	StudyID   string  `db:"study_id" json:"study_id"`
	Term      string  `db:"term" json:"term"`
	AvgWeight float64 `db:"avg_weight" json:"avg_weight"`
}

// LocationStudy is one row of a coordinate proximity search. Distance is
// the Euclidean distance from the query point in mm.
type LocationStudy struct {
	StudyID  string  `db:"study_id" json:"study_id"`
	X        float64 `db:"x" json:"x"`
	Y        float64 `db:"y" json:"y"`
	Z        float64 `db:"z" json:"z"`
	Distance float64 `db:"distance" json:"distance"`
}

// TermDissociation is one row of a term set-difference (A \ B).
type TermDissociation struct {
	StudyID string  `db:"study_id" json:"study_id"`
	Term    string  `db:"term" json:"term"`
	Weight  float64 `db:"weight" json:"weight"`
}

// LocationDissociation is one row of a location set-difference (A \ B).
// DistA is the distance from query point A in mm.
type LocationDissociation struct {
	StudyID string  `db:"study_id" json:"study_id"`
	X       float64 `db:"x" json:"x"`
	Y       float64 `db:"y" json:"y"`
	Z       float64 `db:"z" json:"z"`
	DistA   float64 `db:"dist_a" json:"dist_a"`
}

// CoordinateSample is a diagnostics sample row from ns.coordinates.
type CoordinateSample struct {
	StudyID string  `db:"study_id" json:"study_id"`
	X       float64 `db:"x" json:"x"`
	Y       float64 `db:"y" json:"y"`
	Z       float64 `db:"z" json:"z"`
}

// AnnotationSample is a diagnostics sample row from ns.annotations_terms.
type AnnotationSample struct {
	StudyID    string  `db:"study_id" json:"study_id"`
	ContrastID string  `db:"contrast_id" json:"contrast_id"`
	Term       string  `db:"term" json:"term"`
	Weight     float64 `db:"weight" json:"weight"`
}

// Diagnostics is the payload of the database diagnostic endpoint. The
// metadata sample is a generic projection because the metadata table's
// columns are not fixed by this service.
type Diagnostics struct {
	Ok                     bool               `json:"ok"`
	Dialect                string             `json:"dialect"`
	Version                string             `json:"version,omitempty"`
	CoordinatesCount       int64              `json:"coordinates_count"`
	MetadataCount          int64              `json:"metadata_count"`
	AnnotationsTermsCount  int64              `json:"annotations_terms_count"`
	CoordinatesSample      []CoordinateSample `json:"coordinates_sample"`
	MetadataSample         []map[string]any   `json:"metadata_sample"`
	AnnotationsTermsSample []AnnotationSample `json:"annotations_terms_sample"`
	Error                  string             `json:"error,omitempty"`
}
