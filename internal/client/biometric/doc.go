// Package biometric wraps the device's local-authentication facility.
//
// Gate turns every platform failure into a plain "no": availability checks,
// challenges and preference updates never return errors or panic. The
// terminal client uses PasscodePlatform, which stands in for a fingerprint
// sensor with a locally enrolled passcode.
package biometric
