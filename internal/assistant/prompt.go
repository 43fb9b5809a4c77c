package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// Greeting is the first assistant turn of every chat.
const Greeting = "Hello! I can answer questions about your schools and work requests. What would you like to know?"

// SummaryLimit is how many requests the summary asks the model to rank.
const SummaryLimit = 10

// ChatInstruction seeds a chat with the current schools and work requests.
func ChatInstruction(schools []models.School, requests []models.WorkRequest) (string, error) {
	schoolsJSON, err := json.MarshalIndent(schools, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode schools: %w", err)
	}
	requestsJSON, err := json.MarshalIndent(requests, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode work requests: %w", err)
	}

	var b strings.Builder
	b.WriteString("You assist a school program administrator. Answer questions about the schools and work requests below.\n")
	b.WriteString("Keep answers short and professional, and use bullet points for lists and priorities.\n\n")
	b.WriteString("Schools:\n")
	b.Write(schoolsJSON)
	b.WriteString("\n\nWork requests:\n")
	b.Write(requestsJSON)
	return b.String(), nil
}

// SummaryEntry is an open request with its program and school names resolved.
type SummaryEntry struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	Status      models.Status   `json:"status"`
	DueDate     *models.Date    `json:"dueDate"`
	Submitted   models.Date     `json:"submittedDate"`
	ProgramName string          `json:"programName"`
	SchoolName  string          `json:"schoolName"`
}

// SummaryPrompt asks for the top open requests with a reason for each.
func SummaryPrompt(entries []SummaryEntry) (string, error) {
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode summary entries: %w", err)
	}
	return fmt.Sprintf("Here are the open work requests:\n%s\n\nRank the %d most important ones. For each, give one or two sentences on why it matters now, considering priority, due date and how long it has waited.", payload, SummaryLimit), nil
}
