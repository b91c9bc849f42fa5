package domain

// Classify tags a profile record with the single role variant its field set
// represents. There is no discriminant field upstream; the role is inferred
// from which variant fields are present:
//
//  1. author    — biography, research_area, publication_id
//  2. reviewer  — specialties, review_count, available
//  3. organizer — job_title, permissions
//
// The checks run in that fixed order and the first full match wins. The
// variants are disjoint by construction upstream, so a record matching more
// than one set should not occur; if it ever does, the priority order above is
// the documented tie-break. A record matching none is tagged RoleUnknown and
// treated as unauthenticated by policy code.
func Classify(rec ProfileRecord) Principal {
	p := Principal{Role: RoleUnknown, Profile: rec.base()}

	switch {
	case rec.Biography != nil && rec.ResearchArea != nil && rec.PublicationID != nil:
		p.Role = RoleAuthor
		p.Author = &AuthorProfile{
			Biography:     *rec.Biography,
			ResearchArea:  *rec.ResearchArea,
			PublicationID: *rec.PublicationID,
		}
	case rec.Specialties != nil && rec.ReviewCount != nil && rec.Available != nil:
		p.Role = RoleReviewer
		p.Reviewer = &ReviewerProfile{
			Specialties: rec.Specialties,
			ReviewCount: *rec.ReviewCount,
			Available:   *rec.Available,
		}
	case rec.JobTitle != nil && rec.Permissions != nil:
		p.Role = RoleOrganizer
		p.Organizer = &OrganizerProfile{
			JobTitle:    *rec.JobTitle,
			Permissions: rec.Permissions,
		}
	}

	return p
}
