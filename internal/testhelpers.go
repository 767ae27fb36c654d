package internal

import (
	"time"
)

// CreateTestDataset creates a contact dataset with the given number of records
func CreateTestDataset(n int) Dataset {
	types := []string{"Email", "Phone", "Email", "Address"}
	ds := make(Dataset, 0, n)
	for i := 0; i < n; i++ {
		ds = append(ds, RecordOf(
			"Name", "Contact "+string(rune('A'+i%26)),
			"Type", types[i%len(types)],
			"Value", "value-"+string(rune('a'+i%26)),
		))
	}
	return ds
}

// CreateTestTranscript creates a short transcript with one exchange
func CreateTestTranscript() []Message {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []Message{
		{
			ID:        "m1",
			Role:      RoleUser,
			Content:   "Hello, what is on the page?",
			Timestamp: now,
		},
		{
			ID:        "m2",
			Role:      RoleAssistant,
			Content:   "The page describes the **API**.",
			Agent:     AgentQA.Ptr(),
			Timestamp: now.Add(time.Second),
		},
	}
}
