package externalapi

// ConsumedOutput binds a spent output to the transaction and milestone that
// spent it (spec §3).
type ConsumedOutput struct {
	TransactionId  TransactionId
	MilestoneIndex MilestoneIndex
}

// NewConsumedOutput builds a ConsumedOutput record.
func NewConsumedOutput(transactionID TransactionId, index MilestoneIndex) ConsumedOutput {
	return ConsumedOutput{TransactionId: transactionID, MilestoneIndex: index}
}

// CreatedOutput binds a newly minted output to the message that created it
// (spec §3).
type CreatedOutput struct {
	MessageId MessageId
	Output    Output
}

// NewCreatedOutput builds a CreatedOutput record.
func NewCreatedOutput(messageID MessageId, output Output) CreatedOutput {
	return CreatedOutput{MessageId: messageID, Output: output}
}

// ConsumedOutputRecord is the value type stored in WhiteFlagMetadata's
// consumed_outputs map: the spent Output itself, plus the record of what
// spent it.
type ConsumedOutputRecord struct {
	Output         Output
	ConsumedOutput ConsumedOutput
}
