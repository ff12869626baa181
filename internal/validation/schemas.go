package validation

// Field names as they appear in API payloads and form drafts.
const (
	FieldName             = "name"
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldOwnerName        = "ownerName"
	FieldAddress          = "address"
	FieldLandMark         = "landMark"
	FieldRoomName         = "roomName"
	FieldRoomType         = "roomType"
	FieldNumberSharedRoom = "numberSharedRoom"
	FieldBuildingID       = "buildingId"
	FieldRoomID           = "roomId"
	FieldAadhar           = "aadhar"
	FieldMobile           = "mobile"
)

const passwordMessage = "Password must be at least 8 characters, include one uppercase letter, one lowercase letter, one number, and one special character"

var Registration = NewSchema("registration",
	Rule{Field: FieldName, Tag: "required,min=3,max=50", Messages: map[string]string{
		"required": "Name is required",
		"min":      "Name must be at least 3 characters",
		"max":      "Name can't exceed 50 characters",
	}},
	Rule{Field: FieldEmail, Tag: "required,email", Messages: map[string]string{
		"required": "Email is required",
		"email":    "Invalid email address",
	}},
	Rule{Field: FieldPassword, Tag: "required,password", Messages: map[string]string{
		"required": "Password is required",
		"password": passwordMessage,
	}},
)

// Login accepts either a name or an email in the email field, so there is
// no email syntax check.
var Login = NewSchema("login",
	Rule{Field: FieldEmail, Tag: "required,max=50", Messages: map[string]string{
		"required": "Email or Name is required",
		"max":      "Must be 50 characters or less",
	}},
	Rule{Field: FieldPassword, Tag: "required,password", Messages: map[string]string{
		"required": "Password is required",
		"password": passwordMessage,
	}},
)

var Building = NewSchema("building",
	Rule{Field: FieldOwnerName, Tag: "required,max=50", Messages: map[string]string{
		"required": "Please give owner name",
		"max":      "Owner name must not exceed 50 characters",
	}},
	Rule{Field: FieldName, Tag: "required,max=50", Messages: map[string]string{
		"required": "Name is required",
		"max":      "Name must not exceed 50 characters",
	}},
	Rule{Field: FieldAddress, Tag: "required", Messages: map[string]string{
		"required": "Address is required",
	}},
	Rule{Field: FieldLandMark, Tag: "required", Messages: map[string]string{
		"required": "Landmark is required",
	}},
)

var Room = NewSchema("room",
	Rule{Field: FieldRoomName, Tag: "required", Messages: map[string]string{
		"required": "Room name is required",
	}},
	Rule{Field: FieldRoomType, Tag: "required,oneof=ac non-ac", Messages: map[string]string{
		"required": "Please select a room type",
		"oneof":    "Room type must be ac or non-ac",
	}},
	Rule{Field: FieldNumberSharedRoom, Tag: "required", Messages: map[string]string{
		"required": "Please enter the number of shared rooms",
	}},
	Rule{Field: FieldBuildingID, Tag: "required", Messages: map[string]string{
		"required": "Please select a building",
	}},
)

var Tenant = NewSchema("tenant",
	Rule{Field: FieldName, Tag: "required", Messages: map[string]string{
		"required": "Name is required",
	}},
	Rule{Field: FieldAadhar, Tag: "required,len=12,digits", Messages: map[string]string{
		"required": "Aadhar is required",
		"len":      "Aadhar must be exactly 12 digits",
		"digits":   "Aadhar must be exactly 12 digits",
	}},
	Rule{Field: FieldMobile, Tag: "required,len=10,digits", Messages: map[string]string{
		"required": "Mobile number is required",
		"len":      "Mobile number must be exactly 10 digits",
		"digits":   "Mobile number must be exactly 10 digits",
	}},
	// building before room: picking a building resets the room
	Rule{Field: FieldBuildingID, Tag: "required", Messages: map[string]string{
		"required": "Building is required",
	}},
	Rule{Field: FieldRoomID, Tag: "required", Messages: map[string]string{
		"required": "Room is required",
	}},
)
