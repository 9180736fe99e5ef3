package cli

var (
	WriteRiskScore = writeRiskScore
	WriteRiskLevel = writeRiskLevel
	GetIndexConfig = getIndexConfig
)
