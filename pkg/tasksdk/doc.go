// Package tasksdk is the Go client for the taskboard HTTP API.
//
// An SDKClient performs the unauthenticated calls (register, login, health)
// and hands out a Session, which carries the access token for everything
// else. Failed calls return an *APIError whose Kind and Code mirror the
// server's error body:
//
//	client := tasksdk.NewSDKClient("http://localhost:8080")
//	sess, err := client.Login(ctx, "alice", "correct horse battery")
//	if err != nil {
//		return err
//	}
//	_, err = sess.StartTracking(ctx, taskID)
//	if tasksdk.HasCode(err, tasksdk.CodeAlreadyTracking) {
//		// a timer is already running
//	}
package tasksdk
