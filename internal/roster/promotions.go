package roster

// Promotion is an occupant that moved into the playing tier.
type Promotion struct {
	Key         string `json:"key"`
	OwnerUserID *uint  `json:"ownerUserId"`
	Label       string `json:"label"`
	Kind        Kind   `json:"kind"`
	OverallRank int    `json:"overallRank"`
}

// Notice groups the promotions of one owner into a single email.
type Notice struct {
	UserID uint
	Items  []Promotion
}

// Diff returns the playing entries of after whose key is not in before,
// in roster order.
func Diff(before []string, after Roster) []Promotion {
	seen := make(map[string]struct{}, len(before))
	for _, k := range before {
		seen[k] = struct{}{}
	}

	var out []Promotion
	for _, e := range after.Playing {
		key := e.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		out = append(out, Promotion{
			Key:         key,
			OwnerUserID: e.OwnerUserID(),
			Label:       e.Label,
			Kind:        e.Kind,
			OverallRank: e.Overall,
		})
	}
	return out
}

// GroupByOwner folds promotions into one Notice per owner, keeping the order
// in which each owner first appears. Promotions without an owner are dropped.
// When optedIn is non-nil only owners present in it are kept.
func GroupByOwner(promotions []Promotion, optedIn map[uint]bool) []Notice {
	var notices []Notice
	index := make(map[uint]int)
	for _, p := range promotions {
		if p.OwnerUserID == nil {
			continue
		}
		owner := *p.OwnerUserID
		if optedIn != nil && !optedIn[owner] {
			continue
		}
		i, ok := index[owner]
		if !ok {
			i = len(notices)
			index[owner] = i
			notices = append(notices, Notice{UserID: owner})
		}
		notices[i].Items = append(notices[i].Items, p)
	}
	return notices
}
