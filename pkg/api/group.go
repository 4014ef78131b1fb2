package api

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"nonblank"`
	Description string `json:"description,omitempty"`
}

func (r *CreateGroupRequest) Validate() error { return check(r) }

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
}

func (r *GetGroupRequest) Validate() error { return check(r) }

type GetGroupResponse struct {
	Group   *Group    `json:"group"`
	Members []*Member `json:"members"`
}

type ListGroupsRequest struct {
	IncludeArchived bool `json:"includeArchived,omitempty"`
}

func (r *ListGroupsRequest) Validate() error { return nil }

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID     string `json:"groupId" validate:"nonblank"`
	Name        string `json:"name" validate:"nonblank"`
	Description string `json:"description,omitempty"`
}

func (r *UpdateGroupRequest) Validate() error { return check(r) }

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type ArchiveGroupRequest struct {
	GroupID  string `json:"groupId" validate:"nonblank"`
	Archived bool   `json:"archived"`
}

func (r *ArchiveGroupRequest) Validate() error { return check(r) }

type ArchiveGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
}

func (r *DeleteGroupRequest) Validate() error { return check(r) }

type DeleteGroupResponse struct{}

type JoinGroupRequest struct {
	Code string `json:"code" validate:"nonblank"`
}

func (r *JoinGroupRequest) Validate() error { return check(r) }

type JoinGroupResponse struct {
	Group  *Group  `json:"group"`
	Member *Member `json:"member"`
}

type ListMembersRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
}

func (r *ListMembersRequest) Validate() error { return check(r) }

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type AddMemberRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
	Email   string `json:"email" validate:"nonblank,email"`
	Name    string `json:"name" validate:"nonblank"`
	Role    string `json:"role,omitempty" validate:"omitempty,oneof=admin member"`
}

func (r *AddMemberRequest) Validate() error { return check(r) }

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type UpdateMemberRoleRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
	Email   string `json:"email" validate:"nonblank"`
	Role    string `json:"role" validate:"required,oneof=admin member"`
}

func (r *UpdateMemberRoleRequest) Validate() error { return check(r) }

type UpdateMemberRoleResponse struct {
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
	Email   string `json:"email" validate:"nonblank"`
}

func (r *RemoveMemberRequest) Validate() error { return check(r) }

type RemoveMemberResponse struct{}
