package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Program Workboard API",
        "description": "Work request tracking for school programs",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Programs"
        },
        {
            "name": "Schools"
        },
        {
            "name": "Classrooms"
        },
        {
            "name": "WorkRequests"
        },
        {
            "name": "Board"
        },
        {
            "name": "Dashboard"
        },
        {
            "name": "UI"
        },
        {
            "name": "Assistant"
        },
        {
            "name": "Exports"
        },
        {
            "name": "System"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is unavailable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/programs": {
            "get": {
                "tags": [
                    "Programs"
                ],
                "summary": "List programs",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Programs"
                ],
                "summary": "Create program",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ProgramRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/programs/{id}": {
            "put": {
                "tags": [
                    "Programs"
                ],
                "summary": "Rename program",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ProgramRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/programs/slug/{slug}": {
            "get": {
                "tags": [
                    "Programs"
                ],
                "summary": "Program page by slug",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/api/v1/schools": {
            "get": {
                "tags": [
                    "Schools"
                ],
                "summary": "List schools",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "programId",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "tags": [
                    "Schools"
                ],
                "summary": "Create school",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateSchoolRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/schools/{id}": {
            "get": {
                "tags": [
                    "Schools"
                ],
                "summary": "School profile",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ]
            },
            "put": {
                "tags": [
                    "Schools"
                ],
                "summary": "Rename school",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateSchoolRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Schools"
                ],
                "summary": "Delete school",
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "412": {
                        "description": "School is still referenced",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ]
            }
        },
        "/api/v1/classrooms": {
            "get": {
                "tags": [
                    "Classrooms"
                ],
                "summary": "List classrooms",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "schoolId",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "tags": [
                    "Classrooms"
                ],
                "summary": "Create classroom",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateClassroomRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/classrooms/{id}": {
            "put": {
                "tags": [
                    "Classrooms"
                ],
                "summary": "Rename classroom",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateClassroomRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Classrooms"
                ],
                "summary": "Delete classroom",
                "responses": {
                    "204": {
                        "description": "Deleted"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ]
            }
        },
        "/api/v1/work-requests": {
            "get": {
                "tags": [
                    "WorkRequests"
                ],
                "summary": "List work requests",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "program",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "priority",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "schoolId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "sortBy",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "sortOrder",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "tags": [
                    "WorkRequests"
                ],
                "summary": "Create work request",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateWorkRequestRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/work-requests/{id}": {
            "get": {
                "tags": [
                    "WorkRequests"
                ],
                "summary": "Get work request",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ]
            },
            "put": {
                "tags": [
                    "WorkRequests"
                ],
                "summary": "Update work request",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateWorkRequestRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "WorkRequests"
                ],
                "summary": "Delete work request",
                "responses": {
                    "204": {
                        "description": "Deleted"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ]
            }
        },
        "/api/v1/work-requests/{id}/status": {
            "patch": {
                "tags": [
                    "WorkRequests"
                ],
                "summary": "Set work request status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateStatusRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/work-requests/{id}/move": {
            "post": {
                "tags": [
                    "WorkRequests"
                ],
                "summary": "Drop a card on a board column",
                "responses": {
                    "200": {
                        "description": "Committed or unchanged",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "202": {
                        "description": "Waiting on the transition modal",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/MoveRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/board/kanban": {
            "get": {
                "tags": [
                    "Board"
                ],
                "summary": "Kanban board",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "program",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "sort",
                        "in": "query",
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/board/hotlist": {
            "get": {
                "tags": [
                    "Board"
                ],
                "summary": "Daily hotlist",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "program",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            }
        },
        "/api/v1/board/calendar": {
            "get": {
                "tags": [
                    "Board"
                ],
                "summary": "Monthly calendar",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "program",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "year",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "month",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            }
        },
        "/api/v1/search": {
            "get": {
                "tags": [
                    "Board"
                ],
                "summary": "Global search",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Dashboard summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/ui/state": {
            "get": {
                "tags": [
                    "UI"
                ],
                "summary": "UI state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "UI"
                ],
                "summary": "Update sidebar or zoom",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UIStateRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/ui/modal": {
            "get": {
                "tags": [
                    "UI"
                ],
                "summary": "Active modal",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "UI"
                ],
                "summary": "Open a create or edit modal",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/OpenModalRequest"
                        }
                    }
                ]
            },
            "post": {
                "tags": [
                    "UI"
                ],
                "summary": "Submit the pending transition modal",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "412": {
                        "description": "No transition is pending",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SubmitTransitionRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "UI"
                ],
                "summary": "Close the active modal",
                "responses": {
                    "204": {
                        "description": "Closed"
                    }
                }
            }
        },
        "/api/v1/assistant/chats": {
            "post": {
                "tags": [
                    "Assistant"
                ],
                "summary": "Start a chat session",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/assistant/chats/{id}": {
            "delete": {
                "tags": [
                    "Assistant"
                ],
                "summary": "End a chat session",
                "responses": {
                    "204": {
                        "description": "Ended"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/api/v1/assistant/chats/{id}/messages": {
            "post": {
                "tags": [
                    "Assistant"
                ],
                "summary": "Send a chat message",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ChatMessageRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/assistant/summary": {
            "post": {
                "tags": [
                    "Assistant"
                ],
                "summary": "Summarize open work by priority",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/exports": {
            "post": {
                "tags": [
                    "Exports"
                ],
                "summary": "Queue a work request export",
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ExportRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/exports/{id}": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Export job status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/api/v1/exports/download": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Download an export result",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "token",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File"
                    },
                    "403": {
                        "description": "Invalid or expired token",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/system/metrics": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Operational metrics snapshot",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "ProgramRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            },
            "required": [
                "name"
            ]
        },
        "CreateSchoolRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "programId": {
                    "type": "integer"
                }
            },
            "required": [
                "name",
                "programId"
            ]
        },
        "UpdateSchoolRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            },
            "required": [
                "name"
            ]
        },
        "CreateClassroomRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "schoolId": {
                    "type": "integer"
                }
            },
            "required": [
                "name",
                "schoolId"
            ]
        },
        "UpdateClassroomRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            },
            "required": [
                "name"
            ]
        },
        "CreateWorkRequestRequest": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "requestorName": {
                    "type": "string"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "Critical",
                        "High",
                        "Medium",
                        "Low"
                    ]
                },
                "schoolId": {
                    "type": "integer"
                },
                "programId": {
                    "type": "integer"
                },
                "classroom": {
                    "type": "string"
                }
            },
            "required": [
                "description",
                "requestorName",
                "priority"
            ]
        },
        "UpdateWorkRequestRequest": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "requestorName": {
                    "type": "string"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "Critical",
                        "High",
                        "Medium",
                        "Low"
                    ]
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "New Request",
                        "In Progress",
                        "On Hold",
                        "Completed"
                    ]
                },
                "schoolId": {
                    "type": "integer"
                },
                "programId": {
                    "type": "integer"
                },
                "classroom": {
                    "type": "string"
                },
                "dueDate": {
                    "type": "string",
                    "format": "date"
                }
            },
            "required": [
                "description",
                "requestorName",
                "priority",
                "status"
            ]
        },
        "UpdateStatusRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "New Request",
                        "In Progress",
                        "On Hold",
                        "Completed"
                    ]
                }
            },
            "required": [
                "status"
            ]
        },
        "MoveRequest": {
            "type": "object",
            "properties": {
                "column": {
                    "type": "string"
                }
            },
            "required": [
                "column"
            ]
        },
        "UIStateRequest": {
            "type": "object",
            "properties": {
                "sidebarCollapsed": {
                    "type": "boolean"
                },
                "zoom": {
                    "type": "string",
                    "enum": [
                        "sm",
                        "md",
                        "lg"
                    ]
                }
            }
        },
        "OpenModalRequest": {
            "type": "object",
            "properties": {
                "kind": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "programId": {
                    "type": "integer"
                },
                "schoolId": {
                    "type": "integer"
                }
            },
            "required": [
                "kind"
            ]
        },
        "SubmitTransitionRequest": {
            "type": "object",
            "properties": {
                "dueDate": {
                    "type": "string",
                    "format": "date"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "ChatMessageRequest": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                }
            },
            "required": [
                "message"
            ]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "format": {
                    "type": "string",
                    "enum": [
                        "csv",
                        "pdf"
                    ]
                },
                "program": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "New Request",
                        "In Progress",
                        "On Hold",
                        "Completed"
                    ]
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "Critical",
                        "High",
                        "Medium",
                        "Low"
                    ]
                },
                "schoolId": {
                    "type": "integer"
                },
                "sortBy": {
                    "type": "string"
                },
                "sortOrder": {
                    "type": "string"
                }
            },
            "required": [
                "format"
            ]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
