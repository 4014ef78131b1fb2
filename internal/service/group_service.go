package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedledger/internal/audit"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
	"github.com/mmynk/sharedledger/pkg/api"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store    storage.Store
	recorder *audit.Recorder
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, recorder *audit.Recorder) *GroupService {
	return &GroupService{store: store, recorder: recorder}
}

// CreateGroup creates a new group with the caller as its first admin.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        strings.TrimSpace(req.Msg.Name),
		Description: strings.TrimSpace(req.Msg.Description),
		CreatedBy:   actor.Email,
	}
	creator := &models.Member{Email: actor.Email, Name: actor.Name, Role: models.RoleAdmin}

	// Save to storage (generates ID, Code and CreatedAt)
	if err := s.store.CreateGroup(ctx, group, creator); err != nil {
		return nil, fail("CreateGroup", err)
	}
	s.recorder.Created(ctx, actor, group.ID, models.EntityGroup, group.ID, groupFields(group))

	slog.Info("Group created", "group_id", group.ID, "code", group.Code)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup returns a group and its members.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, _, err := membership(ctx, s.store, req.Msg.GroupID, actor.Email)
	if err != nil {
		return nil, fail("GetGroup", err, "group_id", req.Msg.GroupID)
	}
	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fail("GetGroup", err, "group_id", group.ID)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{
		Group:   toAPIGroup(group),
		Members: toAPIMembers(members),
	}), nil
}

// ListGroups returns the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForMember(ctx, actor.Email)
	if err != nil {
		return nil, fail("ListGroups", err)
	}

	out := make([]*api.Group, 0, len(groups))
	for _, g := range groups {
		if g.Archived && !req.Msg.IncludeArchived {
			continue
		}
		out = append(out, toAPIGroup(g))
	}

	slog.Info("ListGroups successful", "count", len(out))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames a group or changes its description.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, _, err := requireWritable(ctx, s.store, req.Msg.GroupID, actor.Email)
	if err != nil {
		return nil, fail("UpdateGroup", err, "group_id", req.Msg.GroupID)
	}

	before := groupFields(group)
	group.Name = strings.TrimSpace(req.Msg.Name)
	group.Description = strings.TrimSpace(req.Msg.Description)

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, fail("UpdateGroup", err, "group_id", group.ID)
	}
	s.recorder.Updated(ctx, actor, group.ID, models.EntityGroup, group.ID, before, groupFields(group))

	slog.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// ArchiveGroup archives or unarchives a group. Archived groups are read-only.
func (s *GroupService) ArchiveGroup(ctx context.Context, req *connect.Request[api.ArchiveGroupRequest]) (*connect.Response[api.ArchiveGroupResponse], error) {
	slog.Info("ArchiveGroup request received", "group_id", req.Msg.GroupID, "archived", req.Msg.Archived)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, _, err := membership(ctx, s.store, req.Msg.GroupID, actor.Email)
	if err != nil {
		return nil, fail("ArchiveGroup", err, "group_id", req.Msg.GroupID)
	}
	if group.Archived == req.Msg.Archived {
		return connect.NewResponse(&api.ArchiveGroupResponse{Group: toAPIGroup(group)}), nil
	}

	before := groupFields(group)
	if err := s.store.SetGroupArchived(ctx, group.ID, req.Msg.Archived); err != nil {
		return nil, fail("ArchiveGroup", err, "group_id", group.ID)
	}
	group.Archived = req.Msg.Archived
	s.recorder.Updated(ctx, actor, group.ID, models.EntityGroup, group.ID, before, groupFields(group))

	slog.Info("Group archive state changed", "group_id", group.ID, "archived", group.Archived)

	return connect.NewResponse(&api.ArchiveGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group and its whole ledger. Admins only.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, member, err := membership(ctx, s.store, req.Msg.GroupID, actor.Email)
	if err == nil {
		err = requireAdmin(member)
	}
	if err != nil {
		return nil, fail("DeleteGroup", err, "group_id", req.Msg.GroupID)
	}

	// The audit trail goes with the group, so there is nothing to record.
	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		return nil, fail("DeleteGroup", err, "group_id", group.ID)
	}

	slog.Info("Group deleted", "group_id", group.ID, "by", actor.Email)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// JoinGroup adds the caller to the group with the given code.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	slog.Info("JoinGroup request received", "code", req.Msg.Code)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroupByCode(ctx, req.Msg.Code)
	if err != nil {
		return nil, fail("JoinGroup", err, "code", req.Msg.Code)
	}
	if group.Archived {
		return nil, fail("JoinGroup", errArchived, "group_id", group.ID)
	}

	member := &models.Member{GroupID: group.ID, Email: actor.Email, Name: actor.Name, Role: models.RoleMember}
	if err := s.store.AddMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, connect.NewError(connect.CodeAlreadyExists, errors.New("already a member of this group"))
		}
		return nil, fail("JoinGroup", err, "group_id", group.ID)
	}
	s.recorder.Record(ctx, actor, group.ID, models.EntityGroup, group.ID, models.ActionUpdate,
		audit.Fields{"added_member": map[string]any(memberFields(member))})

	slog.Info("Member joined group", "group_id", group.ID, "email", member.Email)

	return connect.NewResponse(&api.JoinGroupResponse{
		Group:  toAPIGroup(group),
		Member: toAPIMember(member),
	}), nil
}

// ListMembers returns a group's members in join order.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	slog.Info("ListMembers request received", "group_id", req.Msg.GroupID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, _, err := membership(ctx, s.store, req.Msg.GroupID, actor.Email); err != nil {
		return nil, fail("ListMembers", err, "group_id", req.Msg.GroupID)
	}
	members, err := s.store.ListMembers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("ListMembers", err, "group_id", req.Msg.GroupID)
	}

	return connect.NewResponse(&api.ListMembersResponse{Members: toAPIMembers(members)}), nil
}

// AddMember adds someone to the group. Only admins can add other admins.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "email", req.Msg.Email)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, self, err := requireWritable(ctx, s.store, req.Msg.GroupID, actor.Email)
	if err != nil {
		return nil, fail("AddMember", err, "group_id", req.Msg.GroupID)
	}

	role := models.RoleMember
	if req.Msg.Role != "" {
		role = models.Role(req.Msg.Role)
	}
	if role == models.RoleAdmin {
		if err := requireAdmin(self); err != nil {
			return nil, fail("AddMember", err, "group_id", group.ID)
		}
	}

	member := &models.Member{
		GroupID: group.ID,
		Email:   req.Msg.Email,
		Name:    strings.TrimSpace(req.Msg.Name),
		Role:    role,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		return nil, fail("AddMember", err, "group_id", group.ID, "email", req.Msg.Email)
	}
	s.recorder.Record(ctx, actor, group.ID, models.EntityGroup, group.ID, models.ActionUpdate,
		audit.Fields{"added_member": map[string]any(memberFields(member))})

	slog.Info("Member added", "group_id", group.ID, "email", member.Email, "role", member.Role)

	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// UpdateMemberRole changes another member's role. Admins only.
func (s *GroupService) UpdateMemberRole(ctx context.Context, req *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error) {
	slog.Info("UpdateMemberRole request received", "group_id", req.Msg.GroupID, "email", req.Msg.Email, "role", req.Msg.Role)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, self, err := requireWritable(ctx, s.store, req.Msg.GroupID, actor.Email)
	if err == nil {
		err = requireAdmin(self)
	}
	if err != nil {
		return nil, fail("UpdateMemberRole", err, "group_id", req.Msg.GroupID)
	}
	if models.NormalizeEmail(req.Msg.Email) == self.Email {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("you cannot change your own role"))
	}

	target, err := s.store.GetMember(ctx, group.ID, req.Msg.Email)
	if err != nil {
		return nil, fail("UpdateMemberRole", err, "group_id", group.ID, "email", req.Msg.Email)
	}
	oldRole := target.Role
	target.Role = models.Role(req.Msg.Role)
	if oldRole != target.Role {
		if err := s.store.UpdateMemberRole(ctx, group.ID, target.Email, target.Role); err != nil {
			return nil, fail("UpdateMemberRole", err, "group_id", group.ID, "email", target.Email)
		}
		s.recorder.Record(ctx, actor, group.ID, models.EntityGroup, group.ID, models.ActionUpdate,
			audit.Fields{"updated_member_role": map[string]any{
				"email":    target.Email,
				"name":     target.Name,
				"old_role": string(oldRole),
				"new_role": string(target.Role),
			}})
	}

	slog.Info("Member role updated", "group_id", group.ID, "email", target.Email, "role", target.Role)

	return connect.NewResponse(&api.UpdateMemberRoleResponse{Member: toAPIMember(target)}), nil
}

// RemoveMember removes another member from the group. Admins only. The
// member's past expenses and transfers stay in the ledger.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "email", req.Msg.Email)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, self, err := requireWritable(ctx, s.store, req.Msg.GroupID, actor.Email)
	if err == nil {
		err = requireAdmin(self)
	}
	if err != nil {
		return nil, fail("RemoveMember", err, "group_id", req.Msg.GroupID)
	}
	if models.NormalizeEmail(req.Msg.Email) == self.Email {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("you cannot remove yourself"))
	}

	target, err := s.store.GetMember(ctx, group.ID, req.Msg.Email)
	if err != nil {
		return nil, fail("RemoveMember", err, "group_id", group.ID, "email", req.Msg.Email)
	}
	if err := s.store.RemoveMember(ctx, group.ID, target.Email); err != nil {
		return nil, fail("RemoveMember", err, "group_id", group.ID, "email", target.Email)
	}
	s.recorder.Record(ctx, actor, group.ID, models.EntityGroup, group.ID, models.ActionUpdate,
		audit.Fields{"removed_member": map[string]any(memberFields(target))})

	slog.Info("Member removed", "group_id", group.ID, "email", target.Email)

	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}
