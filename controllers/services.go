package controllers

import (
	"time"

	"github.com/dendyfood/dendyfood-api/utils"
)

// Collaborators wired by main before the router starts serving.
var (
	Notifier      utils.OrderNotifier     = utils.Notifiers{}
	MenuSnapshots utils.MenuSnapshotStore = &utils.MemorySnapshotStore{}
	Images        utils.ImageStore
)

const notifyTimeout = 30 * time.Second
