package requests

type WorkflowActionRequest struct {
	Action   string `json:"action"`
	Comments string `json:"comments"`
}
