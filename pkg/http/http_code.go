// Copyright 2026 JMarkets Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	OrgIdIsEmpty                  = failed(5002, "Organization id is empty")

	// Unauthorized 401
	Unauthorized         = failed(4401, "Unauthorized")
	AuthenticationFailed = failed(4402, "Authentication failed")
	AuthorizationEmpty   = failed(4404, "Authorization is empty")
	InvalidToken         = failed(4405, "Invalid token")
	TokenBeEmpty         = failed(4406, "Token cannot be empty")
	TokenExpired         = failed(4407, "Token is expired")
	TokenFormatIncorrect = failed(4408, "Token format is incorrect")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	// Forbidden 403
	Forbidden              = failed(4030, "Forbidden")
	NotAMember             = failed(4031, "Not a member of this organization")
	InsufficientPermission = failed(4032, "Insufficient permission")

	InternalError  = failed(5000, "Internal error, please contact the administrator")
	StorageTimeout = failed(5040, "Storage unavailable, please retry")

	UserNotExist                  = failed(4041, "User does not exist")
	UserAlreadyExist              = failed(4042, "User already exists")
	UserIncorrectPassword         = failed(4043, "User incorrect password")
	UsernameAndPasswordIsRequired = failed(4045, "Username and password are required")

	OrganizationNotExist       = failed(4051, "Organization does not exist")
	SlugTaken                  = failed(4052, "Slug is already taken or reserved")
	SubdomainTaken             = failed(4053, "Subdomain is already taken or reserved")
	RoleNotAssignable          = failed(4054, "Role cannot be assigned to organization members")
	SystemRoleImmutable        = failed(4055, "System role permissions cannot be modified")
	AlreadyMember              = failed(4056, "User is already a member of this organization")
	InvitationNotExist         = failed(4061, "Invitation does not exist")
	InvitationExpired          = failed(4062, "Invitation has expired, request a new invitation")
	InvitationAlreadyResolved  = failed(4063, "Invitation has already been resolved")
	InvitationEmailMismatch    = failed(4064, "Invitation was issued for a different email address")
	InvitationPendingDuplicate = failed(4065, "A pending invitation already exists for this email")
)

var (
	Success = success(200, "Request Success")
)

func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
