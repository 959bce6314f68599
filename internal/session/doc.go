// Package session keeps the logged-in identity for the role views.
//
// Login is a placeholder: any email is accepted for any role and no
// credential is checked. The session is stored as JSON under the
// store's currentUser key and the previous login time under aquaLastLogin.
package session
