package assets

// readinessChecklist is the set of categories a structure needs online, in display order.
var readinessChecklist = []AssetType{
	TypeBusinessManager,
	TypeAdAccount,
	TypeDomain,
	TypeFacebookPage,
	TypeFacebookProfile,
	TypeHosting,
}

type Readiness struct {
	Missing     []string `json:"missing"`
	ActiveCount int      `json:"activeCount"`
	Total       int      `json:"total"`
	IsReady     bool     `json:"isReady"`
}

// EvaluateReadiness counts a checklist category as satisfied when at least one asset
// of that type is online. Missing keeps checklist order.
func EvaluateReadiness(list []Asset) Readiness {
	online := make(map[AssetType]bool, len(readinessChecklist))
	for _, a := range list {
		if a.Status == StatusOnline {
			online[a.Type] = true
		}
	}

	r := Readiness{Missing: []string{}, Total: len(readinessChecklist)}
	for _, t := range readinessChecklist {
		if online[t] {
			r.ActiveCount++
			continue
		}
		r.Missing = append(r.Missing, t.Label())
	}
	r.IsReady = len(r.Missing) == 0
	return r
}
