package drive

// Breadcrumb is one entry of the trail from the virtual root down to a
// folder. The synthetic root entry has an empty ID.
type Breadcrumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
