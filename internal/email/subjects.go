package email

import "fmt"

const subjectHighValueLeadFmt = "🔥 Lead prioritaire: %s (score %d)"

func highValueLeadSubject(alert HighValueLeadAlert) string {
	name := alert.CompanyName
	if name == "" {
		name = alert.ContactName
	}
	return fmt.Sprintf(subjectHighValueLeadFmt, name, alert.Score)
}
