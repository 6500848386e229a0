package services

import (
	"testing"

	"cursor-stats/models"
	"cursor-stats/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

// sampleCSV holds two days of a Tinder iOS user, two days of a Hinge
// Android user and one day of a user outside the known domains.
const sampleCSV = `Date,User ID,Email,Is Active,Chat Suggested Lines Added,Edit Requests,Ask Requests,Agent Requests,API Key Reqs,Most Used Model,Most Used Apply Extension,Most Used Tab Extension,Client Version
2025-06-01,u1,a@gotinder.com,true,10,2,1,0,1,claude-4-sonnet,swift,,1.0
2025-06-02,u1,a@gotinder.com,true,5,3,0,4,0,gpt-4.1,swift,swift,1.1
2025-06-01,u2,b@hinge.co,false,7,1,1,1,0,,kt,,1.0
2025-06-02,u2,b@hinge.co,true,1,0,0,2,0,gpt-4.1,,kotlin,1.0
2025-06-01,u3,c@gmail.com,true,0,9,0,0,0,o3,swift,,1.0
`

func parse(t *testing.T, text string) []*models.Row {
	t.Helper()
	return NewParser(newTestLogger()).Parse(text)
}

func findByEmail(rows []*models.Row, email string) *models.Row {
	for _, r := range rows {
		if r.Email() == email {
			return r
		}
	}
	return nil
}
