package ports

// DataQualityRecorder counts how often stored or supplied identifiers needed
// whitespace repair to match.
type DataQualityRecorder interface {
	IdentifierNormalized()
	ExactMatch()
	TolerantMatch()
	VerificationFailed()
	StorageConflictRecovered()
	InconsistencyDetected()
}
