// Package taskboard registers the OpenAPI document served under /swagger/.
//
// The document is maintained by hand in swag's output format. Keep it in
// step with the @Router annotations in internal/taskboard/http; a test
// there fails when the two disagree.
package taskboard

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/taskboard"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/.well-known/jwks.json": {
            "get": {
                "description": "Returns the JSON Web Key Set used to verify access tokens.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "well-known"
                ],
                "summary": "Get JWKS",
                "responses": {
                    "200": {
                        "description": "The JSON Web Key Set",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.JWKSResponse"
                        }
                    }
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Always 200 while the process serves requests.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Checks the database connection and that signing keys are loaded.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "status, uptime, version, checks - not ready",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/v1/auth/login": {
            "post": {
                "description": "Exchanges a username or email and password for an access token.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Accounts"
                ],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Access token and the user",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.SessionResponse"
                        }
                    },
                    "400": {
                        "description": "Malformed body",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid login or password",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/auth/register": {
            "post": {
                "description": "Creates an account. With organizationName the user founds a new organization and becomes its admin; with inviteCode the user joins an existing one as an employee. With neither the account stays pending.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Accounts"
                ],
                "summary": "Register",
                "parameters": [
                    {
                        "description": "Registration",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.RegisterRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Access token and the new user",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.SessionResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Unknown invite code",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Username, email or organization name taken",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/dashboard": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Task figures cover the same tasks as GET /v1/tasks.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Dashboard"
                ],
                "summary": "Dashboard summary",
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.DashboardSummary"
                        }
                    },
                    "403": {
                        "description": "Caller has no organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Accounts"
                ],
                "summary": "Current user",
                "responses": {
                    "200": {
                        "description": "The caller",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.User"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only the display name can be changed.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Accounts"
                ],
                "summary": "Update profile",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.UpdateProfileRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "The updated user",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.User"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/meetings": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Online and hybrid meetings need a meetingUrl. Attendees and the project must belong to the organization.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Meetings"
                ],
                "summary": "Schedule meeting",
                "parameters": [
                    {
                        "description": "Meeting",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.CreateMeetingRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Meeting"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Caller has no organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Meetings"
                ],
                "summary": "List my meetings",
                "responses": {
                    "200": {
                        "description": "Meetings the caller organizes or attends, by start time",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.MeetingsResponse"
                        }
                    }
                }
            }
        },
        "/v1/meetings/today": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Meetings"
                ],
                "summary": "Today's meetings",
                "responses": {
                    "200": {
                        "description": "Meetings starting within the current UTC day",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.MeetingsResponse"
                        }
                    }
                }
            }
        },
        "/v1/meetings/upcoming": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Meetings"
                ],
                "summary": "Upcoming meetings",
                "responses": {
                    "200": {
                        "description": "At most ten scheduled meetings starting from now",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.MeetingsResponse"
                        }
                    }
                }
            }
        },
        "/v1/meetings/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Meetings"
                ],
                "summary": "Get meeting",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Meeting"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only the organizer or an admin may update. Absent fields are left unchanged.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Meetings"
                ],
                "summary": "Update meeting",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.UpdateMeetingRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Meeting"
                        }
                    },
                    "400": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "Meetings"
                ],
                "summary": "Delete meeting",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/meetings/{id}/cancel": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Meetings"
                ],
                "summary": "Cancel meeting",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Meeting"
                        }
                    },
                    "400": {
                        "description": "Already cancelled",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/meetings/{id}/respond": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Meetings"
                ],
                "summary": "Answer an invitation",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "accepted, declined or maybe",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.RespondRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Meeting"
                        }
                    },
                    "400": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Caller is not an attendee",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/organization": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Organizations"
                ],
                "summary": "Caller's organization",
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Organization"
                        }
                    },
                    "403": {
                        "description": "Caller has no organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/organization/invites": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Organizations"
                ],
                "summary": "Invite by email",
                "parameters": [
                    {
                        "description": "Invite",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.CreateInviteRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Invite"
                        }
                    },
                    "400": {
                        "description": "Invalid email or role",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Caller is not an admin",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Already a member or already invited",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Organizations"
                ],
                "summary": "List pending invites",
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.InvitesResponse"
                        }
                    },
                    "403": {
                        "description": "Caller is not an admin",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/organization/invites/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "Organizations"
                ],
                "summary": "Cancel an invite",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invite ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "403": {
                        "description": "Caller is not an admin",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Unknown invite",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/organization/members": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Organizations"
                ],
                "summary": "List members",
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.UsersResponse"
                        }
                    },
                    "403": {
                        "description": "Caller has no organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/organization/members/{userID}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "Organizations"
                ],
                "summary": "Remove a member",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Member ID",
                        "name": "userID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Cannot remove self",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Caller is not an admin",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not a member",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/organization/members/{userID}/role": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Organizations"
                ],
                "summary": "Change a member's role",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Member ID",
                        "name": "userID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "New role",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ChangeRoleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.User"
                        }
                    },
                    "400": {
                        "description": "Invalid role",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Caller is not an admin",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not a member",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/organizations": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Founds an organization owned by the caller, who becomes its admin. The caller must not belong to one yet.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Organizations"
                ],
                "summary": "Create organization",
                "parameters": [
                    {
                        "description": "Organization",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.CreateOrganizationRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "The new organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Organization"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Already a member, or name taken",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/organizations/join": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Organizations"
                ],
                "summary": "Join organization",
                "parameters": [
                    {
                        "description": "Invite code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.JoinOrganizationRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "The caller after joining",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.User"
                        }
                    },
                    "404": {
                        "description": "Unknown invite code",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Already a member of an organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/projects": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Any active member may create a project. Team members must belong to the organization.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Projects"
                ],
                "summary": "Create project",
                "parameters": [
                    {
                        "description": "Project",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.CreateProjectRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Project"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Caller has no organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Projects"
                ],
                "summary": "List projects",
                "responses": {
                    "200": {
                        "description": "Newest first",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ProjectsResponse"
                        }
                    },
                    "403": {
                        "description": "Caller has no organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/projects/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Projects"
                ],
                "summary": "Get project",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Project"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only the creator, managers and admins may update. Absent fields are left unchanged.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Projects"
                ],
                "summary": "Update project",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.UpdateProjectRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Project"
                        }
                    },
                    "400": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Deletes the project with its tasks and time entries.",
                "tags": [
                    "Projects"
                ],
                "summary": "Delete project",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/projects/{id}/available-members": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Projects"
                ],
                "summary": "Members not yet on the team",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.UsersResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/projects/{id}/tasks": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tasks"
                ],
                "summary": "List project tasks",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Most recently updated first",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.TasksResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/projects/{id}/team": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Projects"
                ],
                "summary": "List team",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.TeamResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Projects"
                ],
                "summary": "Add team member",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Member",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.AddTeamMemberRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Project"
                        }
                    },
                    "400": {
                        "description": "User is not in the organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Already on the team",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/projects/{id}/team/{userID}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Projects"
                ],
                "summary": "Remove team member",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Project ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Member ID",
                        "name": "userID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Project"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/tasks": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "The caller must be a manager, an admin, the project creator or on the project team.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tasks"
                ],
                "summary": "Create task",
                "parameters": [
                    {
                        "description": "Task",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.CreateTaskRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Task"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Unknown project",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Employees see the tasks they created or are assigned. Managers and admins see the tasks they created.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tasks"
                ],
                "summary": "List my tasks",
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.TasksResponse"
                        }
                    },
                    "403": {
                        "description": "Caller has no organization",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/tasks/recent": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tasks"
                ],
                "summary": "Recently updated tasks",
                "responses": {
                    "200": {
                        "description": "At most ten tasks the caller created or is assigned",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.TasksResponse"
                        }
                    }
                }
            }
        },
        "/v1/tasks/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tasks"
                ],
                "summary": "Get task",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Task with its time entries",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Task"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Absent fields are left unchanged. An empty assignedTo unassigns the task.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tasks"
                ],
                "summary": "Update task",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.UpdateTaskRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Task"
                        }
                    },
                    "400": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Managers may not delete tasks they neither created nor are assigned.",
                "tags": [
                    "Tasks"
                ],
                "summary": "Delete task",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/tasks/{id}/status": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Progress follows the status. Completing a task records completedAt.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tasks"
                ],
                "summary": "Set task status",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "New status",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.SetTaskStatusRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.Task"
                        }
                    },
                    "400": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/tasks/{id}/tracking/start": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Opens a time entry for the caller. A pending task moves to in-progress.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tracking"
                ],
                "summary": "Start tracking",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "The open entry",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.TimeEntry"
                        }
                    },
                    "400": {
                        "description": "ALREADY_TRACKING",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/tasks/{id}/tracking/stop": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Closes the caller's open entry and adds its whole minutes to the task total. The body is optional.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tracking"
                ],
                "summary": "Stop tracking",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "End time and note",
                        "name": "request",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/tasksdk.StopTrackingRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.StopTrackingResponse"
                        }
                    },
                    "400": {
                        "description": "NO_ACTIVE_ENTRY or INVALID_TIME_RANGE",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/tracking/active": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Tracking"
                ],
                "summary": "Running timers",
                "responses": {
                    "200": {
                        "description": "Open entries of the caller with elapsed minutes",
                        "schema": {
                            "$ref": "#/definitions/tasksdk.ActiveEntriesResponse"
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "EdDSA signed access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "tasksdk.ActiveEntriesResponse": {
            "type": "object"
        },
        "tasksdk.AddTeamMemberRequest": {
            "type": "object"
        },
        "tasksdk.ChangeRoleRequest": {
            "type": "object"
        },
        "tasksdk.CreateInviteRequest": {
            "type": "object"
        },
        "tasksdk.CreateMeetingRequest": {
            "type": "object"
        },
        "tasksdk.CreateOrganizationRequest": {
            "type": "object"
        },
        "tasksdk.CreateProjectRequest": {
            "type": "object"
        },
        "tasksdk.CreateTaskRequest": {
            "type": "object"
        },
        "tasksdk.DashboardSummary": {
            "type": "object"
        },
        "tasksdk.ErrorResponse": {
            "type": "object"
        },
        "tasksdk.HealthResponse": {
            "type": "object"
        },
        "tasksdk.Invite": {
            "type": "object"
        },
        "tasksdk.InvitesResponse": {
            "type": "object"
        },
        "tasksdk.JWKSResponse": {
            "type": "object"
        },
        "tasksdk.JoinOrganizationRequest": {
            "type": "object"
        },
        "tasksdk.LoginRequest": {
            "type": "object"
        },
        "tasksdk.Meeting": {
            "type": "object"
        },
        "tasksdk.MeetingsResponse": {
            "type": "object"
        },
        "tasksdk.Organization": {
            "type": "object"
        },
        "tasksdk.Project": {
            "type": "object"
        },
        "tasksdk.ProjectsResponse": {
            "type": "object"
        },
        "tasksdk.RegisterRequest": {
            "type": "object"
        },
        "tasksdk.RespondRequest": {
            "type": "object"
        },
        "tasksdk.SessionResponse": {
            "type": "object"
        },
        "tasksdk.SetTaskStatusRequest": {
            "type": "object"
        },
        "tasksdk.StopTrackingRequest": {
            "type": "object"
        },
        "tasksdk.StopTrackingResponse": {
            "type": "object"
        },
        "tasksdk.Task": {
            "type": "object"
        },
        "tasksdk.TasksResponse": {
            "type": "object"
        },
        "tasksdk.TeamResponse": {
            "type": "object"
        },
        "tasksdk.TimeEntry": {
            "type": "object"
        },
        "tasksdk.UpdateMeetingRequest": {
            "type": "object"
        },
        "tasksdk.UpdateProfileRequest": {
            "type": "object"
        },
        "tasksdk.UpdateProjectRequest": {
            "type": "object"
        },
        "tasksdk.UpdateTaskRequest": {
            "type": "object"
        },
        "tasksdk.User": {
            "type": "object"
        },
        "tasksdk.UsersResponse": {
            "type": "object"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Taskboard API",
	Description:      "Multi-tenant project, task and meeting tracking with per-task time tracking.\n\nEvery resource belongs to exactly one organization. Resources of other organizations are reported as not found.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
