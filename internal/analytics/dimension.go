package analytics

// Fallback labels for records missing a dimension.
const (
	NoActivity    = "No Activity"
	NoProject     = "No Project"
	UnknownMember = "Unknown Member"
)

// Dimension extracts the secondary axis of a pivot from a record.
type Dimension struct {
	Name     string
	Fallback string
	label    func(Record) string
}

// NewDimension builds a dimension from a label function. An empty label from
// fn is replaced by fallback, so records are never dropped for lacking a tag.
func NewDimension(name, fallback string, fn func(Record) string) Dimension {
	return Dimension{Name: name, Fallback: fallback, label: fn}
}

// Of returns the label of r along d.
func (d Dimension) Of(r Record) string {
	if d.label != nil {
		if s := d.label(r); s != "" {
			return s
		}
	}
	return d.Fallback
}

// Collapse reports every record matching match under a single umbrella label.
// Other records keep their own label.
func (d Dimension) Collapse(label string, match func(Record) bool) Dimension {
	inner := d
	return Dimension{
		Name:     d.Name,
		Fallback: d.Fallback,
		label: func(r Record) string {
			if match(r) {
				return label
			}
			return inner.Of(r)
		},
	}
}

// ByActivity labels records with their activity name.
func ByActivity(dir Directory) Dimension {
	return NewDimension("activity", NoActivity, func(r Record) string {
		return dir.ActivityName(r.ActivityID)
	})
}

// ByProject labels records with their project name.
func ByProject(dir Directory) Dimension {
	return NewDimension("project", NoProject, func(r Record) string {
		return dir.ProjectName(r.ProjectID)
	})
}

// ByMember labels records with the actor's display name.
func ByMember(dir Directory) Dimension {
	return NewDimension("member", UnknownMember, func(r Record) string {
		return dir.ActorName(r.ActorID)
	})
}

// InProjects matches records logged on any of ids.
func InProjects(ids ...int64) func(Record) bool {
	set := idSet(ids)
	return func(r Record) bool {
		_, ok := set[r.ProjectID]
		return ok
	}
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
