package constants

// face auth response codes
// these consist of 4 digits
//
// the 1st 3 identify the scenario
// 4th indicates if the response requires user interactions through a dialog box. 0 means it does not require. 1 means it requires.

var FACE_AUTH_CONFIGURED uint = 3210         // face data saved, the user can now sign in with their face
var FACE_AUTH_VERIFIED uint = 3220           // session issued
var FACE_AUTH_UPDATED uint = 3230            // face data replaced
var FACE_INVALID_EMBEDDING uint = 3240       // ask the client to recapture the face
var FACE_AUTH_ALREADY_CONFIGURED uint = 3251 // offer the update flow instead of signup
var FACE_AUTH_NOT_CONFIGURED uint = 3261     // take the user to face signup
var FACE_ACCOUNT_NOT_FOUND uint = 3270       // take the user to account registration
var FACE_VERIFICATION_FAILED uint = 3280     // let the user retry, show attempts remaining
var FACE_AUTH_LOCKED_OUT uint = 3291         // show the lockout dialog with the retry time
var FACE_SESSION_ISSUANCE_FAILED uint = 3300 // retry sign in
