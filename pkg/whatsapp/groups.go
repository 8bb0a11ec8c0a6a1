package whatsapp

import (
	"context"
	"errors"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types"
)

func (s *Session) groupJID(groupID string) (types.JID, error) {
	jid := ToJID(groupID)
	if jid.Server != types.GroupServer {
		return types.EmptyJID, ErrInvalidGroupID
	}
	return jid, nil
}

// Groups fetches the joined-group list from the server and refreshes the
// local cache with it.
func (s *Session) Groups(ctx context.Context) ([]*GroupMeta, error) {
	groups, err := s.client.GetJoinedGroups(ctx)
	if err != nil {
		return nil, err
	}
	metas := make([]*GroupMeta, 0, len(groups))
	for _, info := range groups {
		meta := groupMetaFromInfo(info)
		s.store.UpsertGroup(*meta)
		metas = append(metas, meta)
	}
	return metas, nil
}

// GroupInfo returns fresh metadata for one group, serving concurrent
// callers from a single server round trip.
func (s *Session) GroupInfo(ctx context.Context, groupID string) (*GroupMeta, error) {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return nil, err
	}
	return s.refreshGroup(ctx, jid)
}

func (s *Session) CreateGroup(ctx context.Context, name string, participantIDs []string) (*GroupMeta, error) {
	req := whatsmeow.ReqCreateGroup{Name: name}
	for _, participant := range participantIDs {
		parsed, err := s.resolveChatJID(ctx, participant)
		if err != nil {
			return nil, err
		}
		if parsed.Server == types.GroupServer {
			return nil, ErrParticipantMustBeUser
		}
		req.Participants = append(req.Participants, parsed)
	}

	info, err := s.client.CreateGroup(ctx, req)
	if err != nil {
		return nil, err
	}
	meta := groupMetaFromInfo(info)
	s.store.UpsertGroup(*meta)
	return meta, nil
}

func (s *Session) JoinGroupWithLink(ctx context.Context, link string) (*GroupMeta, error) {
	jid, err := s.client.JoinGroupWithLink(ctx, link)
	if err != nil {
		return nil, err
	}
	return s.refreshGroup(ctx, jid)
}

func (s *Session) JoinGroupWithInvite(ctx context.Context, groupID string, inviter string, code string, expiration int64) error {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return err
	}
	return s.client.JoinGroupWithInvite(ctx, jid, ToJID(inviter), code, expiration)
}

// GroupInfoFromLink previews a group behind an invite link without
// joining, so nothing is cached.
func (s *Session) GroupInfoFromLink(ctx context.Context, code string) (*GroupMeta, error) {
	info, err := s.client.GetGroupInfoFromLink(ctx, code)
	if err != nil {
		return nil, err
	}
	return groupMetaFromInfo(info), nil
}

func (s *Session) LeaveGroup(ctx context.Context, groupID string) error {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return err
	}
	return s.client.LeaveGroup(ctx, jid)
}

func (s *Session) SetGroupName(ctx context.Context, groupID string, name string) error {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return err
	}
	if err := s.client.SetGroupName(ctx, jid, name); err != nil {
		return err
	}

	legacy := ToLegacyID(jid)
	if meta, ok := s.store.GroupByID(legacy); ok {
		updated := *meta
		updated.Subject = name
		s.store.UpsertGroup(updated)
	}
	s.store.UpdateChat(legacy, func(meta *ChatMeta) {
		meta.Name = name
	})
	return nil
}

func (s *Session) SetGroupDescription(ctx context.Context, groupID string, description string) error {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return err
	}
	if err := s.client.SetGroupDescription(ctx, jid, description); err != nil {
		return err
	}
	if meta, ok := s.store.GroupByID(ToLegacyID(jid)); ok {
		updated := *meta
		updated.Description = description
		s.store.UpsertGroup(updated)
	}
	return nil
}

func (s *Session) SetGroupPhoto(ctx context.Context, groupID string, photo []byte) (string, error) {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return "", err
	}
	return s.client.SetGroupPhoto(ctx, jid, photo)
}

func (s *Session) GroupInviteLink(ctx context.Context, groupID string, reset bool) (string, error) {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return "", err
	}
	return s.client.GetGroupInviteLink(ctx, jid, reset)
}

func (s *Session) GroupRequestParticipants(ctx context.Context, groupID string) ([]types.GroupParticipantRequest, error) {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return nil, err
	}
	return s.client.GetGroupRequestParticipants(ctx, jid)
}

func (s *Session) SetGroupLocked(ctx context.Context, groupID string, locked bool) error {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return err
	}
	if err := s.client.SetGroupLocked(ctx, jid, locked); err != nil {
		return err
	}
	if meta, ok := s.store.GroupByID(ToLegacyID(jid)); ok {
		updated := *meta
		updated.Locked = locked
		s.store.UpsertGroup(updated)
	}
	return nil
}

func (s *Session) SetGroupAnnounce(ctx context.Context, groupID string, announce bool) error {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return err
	}
	if err := s.client.SetGroupAnnounce(ctx, jid, announce); err != nil {
		return err
	}
	if meta, ok := s.store.GroupByID(ToLegacyID(jid)); ok {
		updated := *meta
		updated.Announce = announce
		s.store.UpsertGroup(updated)
	}
	return nil
}

func (s *Session) SetGroupJoinApprovalMode(ctx context.Context, groupID string, approvalRequired bool) error {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return err
	}
	return s.client.SetGroupJoinApprovalMode(ctx, jid, approvalRequired)
}

func (s *Session) SetGroupMemberAddMode(ctx context.Context, groupID string, mode string) error {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return err
	}

	var memberAddMode types.GroupMemberAddMode
	switch mode {
	case "all_members":
		memberAddMode = "all_members"
	case "admin_only":
		memberAddMode = "admin_add"
	default:
		return errors.New("invalid member add mode")
	}
	return s.client.SetGroupMemberAddMode(ctx, jid, memberAddMode)
}

func (s *Session) SetGroupTopic(ctx context.Context, groupID string, topic string) error {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return err
	}
	return s.client.SetGroupTopic(ctx, jid, "", "", topic)
}

func (s *Session) AddGroupParticipants(ctx context.Context, groupID string, participants []string) ([]types.GroupParticipant, error) {
	return s.updateParticipants(ctx, groupID, participants, whatsmeow.ParticipantChangeAdd)
}

func (s *Session) RemoveGroupParticipants(ctx context.Context, groupID string, participants []string) ([]types.GroupParticipant, error) {
	return s.updateParticipants(ctx, groupID, participants, whatsmeow.ParticipantChangeRemove)
}

func (s *Session) PromoteGroupParticipants(ctx context.Context, groupID string, participants []string) ([]types.GroupParticipant, error) {
	return s.updateParticipants(ctx, groupID, participants, whatsmeow.ParticipantChangePromote)
}

func (s *Session) DemoteGroupParticipants(ctx context.Context, groupID string, participants []string) ([]types.GroupParticipant, error) {
	return s.updateParticipants(ctx, groupID, participants, whatsmeow.ParticipantChangeDemote)
}

func (s *Session) updateParticipants(ctx context.Context, groupID string, participants []string, change whatsmeow.ParticipantChange) ([]types.GroupParticipant, error) {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return nil, err
	}

	jidList := make([]types.JID, 0, len(participants))
	for _, participant := range participants {
		parsed := ToJID(participant)
		if parsed.IsEmpty() || parsed.Server == types.GroupServer {
			continue
		}
		jidList = append(jidList, parsed)
	}
	if len(jidList) == 0 {
		return nil, ErrParticipantMustBeUser
	}

	result, err := s.client.UpdateGroupParticipants(ctx, jid, jidList, change)
	if err != nil {
		return nil, err
	}
	go s.refreshGroup(context.Background(), jid)
	return result, nil
}

func (s *Session) ApproveGroupRequests(ctx context.Context, groupID string, participants []string) ([]types.GroupParticipant, error) {
	return s.updateRequestParticipants(ctx, groupID, participants, whatsmeow.ParticipantChangeApprove)
}

func (s *Session) RejectGroupRequests(ctx context.Context, groupID string, participants []string) ([]types.GroupParticipant, error) {
	return s.updateRequestParticipants(ctx, groupID, participants, whatsmeow.ParticipantChangeReject)
}

func (s *Session) updateRequestParticipants(ctx context.Context, groupID string, participants []string, change whatsmeow.ParticipantRequestChange) ([]types.GroupParticipant, error) {
	jid, err := s.groupJID(groupID)
	if err != nil {
		return nil, err
	}

	jidList := make([]types.JID, 0, len(participants))
	for _, participant := range participants {
		parsed := ToJID(participant)
		if parsed.IsEmpty() {
			continue
		}
		jidList = append(jidList, parsed)
	}
	if len(jidList) == 0 {
		return nil, ErrParticipantMustBeUser
	}
	return s.client.UpdateGroupRequestParticipants(ctx, jid, jidList, change)
}
