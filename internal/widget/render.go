package widget

import (
	"fmt"

	"github.com/jonathan/resume-intake/internal/types"
)

// ProfileLine is one labelled entry of the results list.
type ProfileLine struct {
	Label string
	Value string
}

// RenderProfile turns an extracted profile into display lines.
//
// Name, email and phone are always listed, with NotFoundPlaceholder
// standing in for absent values. Skills are listed only when present;
// list values are joined with ", ".
func RenderProfile(p *types.ExtractedProfile) []ProfileLine {
	if p == nil {
		return nil
	}

	lines := []ProfileLine{
		{Label: labelName, Value: p.FullName.Or(NotFoundPlaceholder)},
		{Label: labelEmail, Value: p.Email.Or(NotFoundPlaceholder)},
		{Label: labelPhone, Value: p.Phone.Or(NotFoundPlaceholder)},
	}
	if p.Skills.Present() {
		lines = append(lines, ProfileLine{Label: labelSkills, Value: p.Skills.String()})
	}
	return lines
}

// RenderDetails returns the secondary fields that are present: desired
// role, years of experience and education.
func RenderDetails(p *types.ExtractedProfile) []ProfileLine {
	if p == nil {
		return nil
	}

	var lines []ProfileLine
	for _, f := range []struct {
		label string
		value types.Text
	}{
		{labelRole, p.DesiredRole},
		{labelExperience, p.ExperienceYears},
		{labelEducation, p.Education},
	} {
		if v, ok := f.value.Value(); ok {
			lines = append(lines, ProfileLine{Label: f.label, Value: v})
		}
	}
	return lines
}

// FileInfoText is the file-info caption for f, e.g. "✓ cv.pdf (12.50 KB)".
func FileInfoText(f types.SelectedFile) string {
	return fmt.Sprintf(fileInfoFormat, f.Name, float64(f.SizeBytes)/1024)
}
