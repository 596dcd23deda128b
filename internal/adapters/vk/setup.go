package vk

import (
	"context"
	"fmt"

	"github.com/SevereCloud/vksdk/v2/api"
)

const callbackAPIVersion = "5.131"

// SetupService provisions the community's Callback API configuration:
// registering the webhook URL as a callback server and enabling message_new
// delivery. Exposed through the admin API so a deployment can self-register
// after the public URL is known.
type SetupService struct {
	vk        *api.VK
	groupID   int64
	secretKey string
}

func NewSetupService(vk *api.VK, groupID int64, secretKey string) *SetupService {
	return &SetupService{vk: vk, groupID: groupID, secretKey: secretKey}
}

// CallbackServer is one registered callback endpoint as VK reports it.
type CallbackServer struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// SetupStatus is the admin view of a group's callback configuration.
type SetupStatus struct {
	GroupID          int64            `json:"groupId"`
	ConfirmationCode string           `json:"confirmationCode"`
	Servers          []CallbackServer `json:"servers"`
}

// EnsureCallbackServer registers serverURL as a callback server for the
// group, reusing an existing registration with the same URL, and switches
// message_new delivery on for it. Returns the server id.
func (s *SetupService) EnsureCallbackServer(ctx context.Context, serverURL, title string) (int, error) {
	existing, err := s.vk.GroupsGetCallbackServers(api.Params{
		"group_id": s.groupID,
	})
	if err != nil {
		return 0, fmt.Errorf("groups.getCallbackServers: %w", err)
	}

	serverID := 0
	for _, srv := range existing.Items {
		if srv.URL == serverURL {
			serverID = srv.ID
			break
		}
	}

	if serverID == 0 {
		added, err := s.vk.GroupsAddCallbackServer(api.Params{
			"group_id":   s.groupID,
			"url":        serverURL,
			"title":      title,
			"secret_key": s.secretKey,
		})
		if err != nil {
			return 0, fmt.Errorf("groups.addCallbackServer: %w", err)
		}
		serverID = added.ServerID
	}

	if _, err := s.vk.GroupsSetCallbackSettings(api.Params{
		"group_id":    s.groupID,
		"server_id":   serverID,
		"api_version": callbackAPIVersion,
		"message_new": true,
	}); err != nil {
		return 0, fmt.Errorf("groups.setCallbackSettings: %w", err)
	}

	return serverID, nil
}

// Status reports the group's confirmation code and registered servers.
func (s *SetupService) Status(ctx context.Context, groupID int64) (SetupStatus, error) {
	if groupID == 0 {
		groupID = s.groupID
	}

	code, err := s.vk.GroupsGetCallbackConfirmationCode(api.Params{
		"group_id": groupID,
	})
	if err != nil {
		return SetupStatus{}, fmt.Errorf("groups.getCallbackConfirmationCode: %w", err)
	}

	servers, err := s.vk.GroupsGetCallbackServers(api.Params{
		"group_id": groupID,
	})
	if err != nil {
		return SetupStatus{}, fmt.Errorf("groups.getCallbackServers: %w", err)
	}

	st := SetupStatus{
		GroupID:          groupID,
		ConfirmationCode: code.Code,
		Servers:          make([]CallbackServer, 0, len(servers.Items)),
	}
	for _, srv := range servers.Items {
		st.Servers = append(st.Servers, CallbackServer{
			ID:     srv.ID,
			Title:  srv.Title,
			URL:    srv.URL,
			Status: srv.Status,
		})
	}
	return st, nil
}
