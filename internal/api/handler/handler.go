package handler

import "github.com/utkandevrim/ac/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth     *AuthHandler
	Member   *MemberHandler
	Dues     *DuesHandler
	Campaign *CampaignHandler
	Event    *EventHandler
	Content  *ContentHandler
	Upload   *UploadHandler
	Export   *ExportHandler
}

// NewHandler wires handlers to their services.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Member:   NewMemberHandler(svc.Member),
		Dues:     NewDuesHandler(svc.Dues),
		Campaign: NewCampaignHandler(svc.Campaign),
		Event:    NewEventHandler(svc.Event),
		Content:  NewContentHandler(svc.Content, svc.Leadership),
		Upload:   NewUploadHandler(svc.Upload),
		Export:   NewExportHandler(svc.Export),
	}
}
